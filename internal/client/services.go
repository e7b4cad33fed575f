package client

import "garageclient/internal/domain/models"

// Typed service constructors, one per garage resource. Pages get their
// service from here so base paths live in exactly one place.

func Categories(c *Client) *Resource[models.Category] {
	return NewResource[models.Category](c, "/api/categories")
}

func Suppliers(c *Client) *Resource[models.Supplier] {
	return NewResource[models.Supplier](c, "/api/suppliers")
}

func Items(c *Client) *Resource[models.Item] {
	return NewResource[models.Item](c, "/api/items")
}

func Vehicles(c *Client) *Resource[models.Vehicle] {
	return NewResource[models.Vehicle](c, "/api/vehicles")
}

func Repairs(c *Client) *Resource[models.RepairOrder] {
	return NewResource[models.RepairOrder](c, "/api/repairs")
}

func Services(c *Client) *Resource[models.ServiceDef] {
	return NewResource[models.ServiceDef](c, "/api/services")
}

func StockTransactions(c *Client) *Resource[models.StockTransaction] {
	return NewResource[models.StockTransaction](c, "/api/stock-transactions")
}

func Users(c *Client) *Resource[models.User] {
	return NewResource[models.User](c, "/api/users")
}
