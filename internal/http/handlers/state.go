package handlers

import (
	"sync"
	"time"

	"garageclient/internal/config"
	"garageclient/internal/domain/models"
	"garageclient/internal/store"
	"garageclient/internal/utils"

	"golang.org/x/crypto/bcrypt"
)

// State owns every in-memory collection served by the dev API. It stands in
// for the production database; contents live only as long as the process.
type State struct {
	Env config.Env

	Categories *store.Collection[models.Category]
	Suppliers  *store.Collection[models.Supplier]
	Items      *store.Collection[models.Item]
	Vehicles   *store.Collection[models.Vehicle]
	Repairs    *store.Collection[models.RepairOrder]
	Services   *store.Collection[models.ServiceDef]
	Stock      *store.Collection[models.StockTransaction]
	Users      *store.Collection[models.User]

	mu             sync.RWMutex
	passwordHashes map[string]string // user id -> bcrypt hash
}

// NewState builds empty collections and seeds a default admin account
// (admin@garage.local / admin123) so login works out of the box.
func NewState(env config.Env) *State {
	s := &State{
		Env: env,
		Categories: store.NewCollection(
			func(v models.Category) string { return v.ID },
			func(v *models.Category, id string) { v.ID = id },
		),
		Suppliers: store.NewCollection(
			func(v models.Supplier) string { return v.ID },
			func(v *models.Supplier, id string) { v.ID = id },
		),
		Items: store.NewCollection(
			func(v models.Item) string { return v.ID },
			func(v *models.Item, id string) { v.ID = id },
		),
		Vehicles: store.NewCollection(
			func(v models.Vehicle) string { return v.ID },
			func(v *models.Vehicle, id string) { v.ID = id },
		),
		Repairs: store.NewCollection(
			func(v models.RepairOrder) string { return v.ID },
			func(v *models.RepairOrder, id string) { v.ID = id },
		),
		Services: store.NewCollection(
			func(v models.ServiceDef) string { return v.ID },
			func(v *models.ServiceDef, id string) { v.ID = id },
		),
		Stock: store.NewCollection(
			func(v models.StockTransaction) string { return v.ID },
			func(v *models.StockTransaction, id string) { v.ID = id },
		),
		Users: store.NewCollection(
			func(v models.User) string { return v.ID },
			func(v *models.User, id string) { v.ID = id },
		),
		passwordHashes: map[string]string{},
	}

	admin := s.Users.Insert(models.User{
		Name:     "Administrator",
		Username: "admin",
		Email:    "admin@garage.local",
		Role:     "admin",
		Status:   "active",
	})
	s.setPassword(admin.ID, "admin123")

	return s
}

func (s *State) setPassword(userID, plain string) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		utils.LogError("", "auth", "hash_password", err)
		return
	}
	s.mu.Lock()
	s.passwordHashes[userID] = string(hash)
	s.mu.Unlock()
}

func (s *State) checkPassword(userID, plain string) bool {
	s.mu.RLock()
	hash := s.passwordHashes[userID]
	s.mu.RUnlock()
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

func nowStamp() string {
	return utils.FormatDateTime(time.Now())
}
