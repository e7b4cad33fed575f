package handlers

import (
	"net/http"
	"strings"

	"garageclient/internal/domain"
	"garageclient/internal/domain/models"
	"garageclient/internal/services"
	"garageclient/internal/utils"

	"github.com/gin-gonic/gin"
)

// Garage bundles the per-resource handlers over one State.
type Garage struct {
	State *State

	Categories crud[models.Category]
	Suppliers  crud[models.Supplier]
	Items      crud[models.Item]
	Vehicles   crud[models.Vehicle]
	Repairs    crud[models.RepairOrder]
	Services   crud[models.ServiceDef]
	Stock      crud[models.StockTransaction]
	Users      crud[models.User]
}

func NewGarage(s *State) *Garage {
	g := &Garage{State: s}

	g.Categories = crud[models.Category]{
		name:         "category",
		col:          s.Categories,
		searchFields: []string{"name", "description"},
		validate: func(v models.Category) []domain.FieldError {
			var errs []domain.FieldError
			if strings.TrimSpace(v.Name) == "" {
				errs = append(errs, domain.FieldError{Field: "name", Message: "is required"})
			}
			return errs
		},
	}

	g.Suppliers = crud[models.Supplier]{
		name:         "supplier",
		col:          s.Suppliers,
		searchFields: []string{"name", "contactPerson", "email", "phone"},
		validate: func(v models.Supplier) []domain.FieldError {
			var errs []domain.FieldError
			if strings.TrimSpace(v.Name) == "" {
				errs = append(errs, domain.FieldError{Field: "name", Message: "is required"})
			}
			if v.Email != "" && !strings.Contains(v.Email, "@") {
				errs = append(errs, domain.FieldError{Field: "email", Message: "must be a valid email"})
			}
			return errs
		},
	}

	g.Items = crud[models.Item]{
		name:         "item",
		col:          s.Items,
		searchFields: []string{"name", "sku", "description"},
		filterFields: []string{"categoryId", "supplierId"},
		validate: func(v models.Item) []domain.FieldError {
			var errs []domain.FieldError
			if strings.TrimSpace(v.Name) == "" {
				errs = append(errs, domain.FieldError{Field: "name", Message: "is required"})
			}
			if v.Price < 0 {
				errs = append(errs, domain.FieldError{Field: "price", Message: "must be non-negative"})
			}
			if v.Quantity < 0 {
				errs = append(errs, domain.FieldError{Field: "quantity", Message: "must be non-negative"})
			}
			return errs
		},
		onCreate: func(v *models.Item) {
			if v.CreatedAt == "" {
				v.CreatedAt = nowStamp()
			}
		},
	}

	g.Vehicles = crud[models.Vehicle]{
		name:         "vehicle",
		col:          s.Vehicles,
		searchFields: []string{"plateNumber", "make", "model"},
		// production API returns the bare entity here; keep the quirk so
		// the client's shape tolerance stays covered.
		bareGet: true,
		validate: func(v models.Vehicle) []domain.FieldError {
			var errs []domain.FieldError
			if strings.TrimSpace(v.PlateNumber) == "" {
				errs = append(errs, domain.FieldError{Field: "plateNumber", Message: "is required"})
			}
			return errs
		},
	}

	g.Repairs = crud[models.RepairOrder]{
		name:         "repair",
		col:          s.Repairs,
		searchFields: []string{"technician", "notes", "status"},
		filterFields: []string{"vehicleId", "status", "technician"},
		validate: func(v models.RepairOrder) []domain.FieldError {
			var errs []domain.FieldError
			if strings.TrimSpace(v.VehicleID) == "" {
				errs = append(errs, domain.FieldError{Field: "vehicleId", Message: "is required"})
			}
			switch v.Status {
			case "", models.RepairStatusOpen, models.RepairStatusInProgress,
				models.RepairStatusDone, models.RepairStatusCancelled:
			default:
				errs = append(errs, domain.FieldError{Field: "status", Message: "unknown status"})
			}
			if v.LaborCost < 0 {
				errs = append(errs, domain.FieldError{Field: "laborCost", Message: "must be non-negative"})
			}
			return errs
		},
		onCreate: func(v *models.RepairOrder) {
			if v.Status == "" {
				v.Status = models.RepairStatusOpen
			}
			if v.CreatedAt == "" {
				v.CreatedAt = nowStamp()
			}
		},
	}

	g.Services = crud[models.ServiceDef]{
		name:         "service",
		col:          s.Services,
		searchFields: []string{"name", "description"},
		validate: func(v models.ServiceDef) []domain.FieldError {
			var errs []domain.FieldError
			if strings.TrimSpace(v.Name) == "" {
				errs = append(errs, domain.FieldError{Field: "name", Message: "is required"})
			}
			if v.Price < 0 {
				errs = append(errs, domain.FieldError{Field: "price", Message: "must be non-negative"})
			}
			return errs
		},
	}

	g.Stock = crud[models.StockTransaction]{
		name:         "stock",
		col:          s.Stock,
		searchFields: []string{"reason"},
		filterFields: []string{"itemId", "kind"},
		validate: func(v models.StockTransaction) []domain.FieldError {
			var errs []domain.FieldError
			if strings.TrimSpace(v.ItemID) == "" {
				errs = append(errs, domain.FieldError{Field: "itemId", Message: "is required"})
			}
			switch v.Kind {
			case "in", "out", "adjust":
			default:
				errs = append(errs, domain.FieldError{Field: "kind", Message: "must be one of in, out, adjust"})
			}
			if v.Quantity == 0 {
				errs = append(errs, domain.FieldError{Field: "quantity", Message: "must not be zero"})
			}
			return errs
		},
		onCreate: func(v *models.StockTransaction) {
			if v.CreatedAt == "" {
				v.CreatedAt = nowStamp()
			}
		},
		afterCreate: func(v models.StockTransaction) {
			s.applyStock(v)
		},
	}

	g.Users = crud[models.User]{
		name:         "user",
		col:          s.Users,
		searchFields: []string{"name", "username", "email"},
	}

	return g
}

// applyStock keeps item quantities consistent with recorded movements.
func (s *State) applyStock(tx models.StockTransaction) {
	_, ok := s.Items.Update(tx.ItemID, func(it *models.Item) {
		switch tx.Kind {
		case "in":
			it.Quantity += tx.Quantity
		case "out":
			it.Quantity -= tx.Quantity
		case "adjust":
			it.Quantity = tx.Quantity
		}
		if it.Quantity < 0 {
			it.Quantity = 0
		}
	})
	if !ok {
		utils.LogEvent("", "stock", "apply", "item missing id="+tx.ItemID)
	}
}

// RepairInvoice renders the PDF invoice for one repair order.
// GET /api/repairs/:id/invoice
func (g *Garage) RepairInvoice(c *gin.Context) {
	id := c.Param("id")
	svc := services.InvoiceService{Loader: g.invoiceLoader}
	pdf, filename, err := svc.Generate(id)
	if err != nil {
		if domain.IsNotFound(err) {
			fail(c, http.StatusNotFound, "repair not found")
			return
		}
		fail(c, http.StatusInternalServerError, "failed to build invoice: "+err.Error())
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func (g *Garage) invoiceLoader(repairID string) (services.InvoiceData, error) {
	var data services.InvoiceData
	r, ok := g.State.Repairs.Get(repairID)
	if !ok {
		return data, domain.NotFoundError{Resource: "repair", ID: repairID}
	}

	data.RepairID = r.ID
	data.Technician = r.Technician
	data.Status = r.Status
	data.Date = r.CreatedAt
	data.LaborCost = r.LaborCost
	data.Notes = r.Notes
	for _, l := range r.Lines {
		data.Lines = append(data.Lines, services.InvoiceLine{
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
		})
	}

	if v, ok := g.State.Vehicles.Get(r.VehicleID); ok {
		data.PlateNumber = v.PlateNumber
		data.VehicleName = strings.TrimSpace(v.Make + " " + v.Model)
		data.OwnerName = v.Owner.Name
		data.OwnerPhone = v.Owner.Phone
	}

	return data, nil
}
