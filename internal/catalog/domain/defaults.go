package domain

import "github.com/shopspring/decimal"

// DefaultCatalog 内置菜单
func DefaultCatalog() *Catalog {
	products := []Product{
		{ID: 1, Name: "Milanesa Napolitana", UnitPrice: decimal.RequireFromString("25.00"), ImageRef: "/static/img/milanesa-napolitana.jpg"},
		{ID: 2, Name: "Milanesa de Pollo", UnitPrice: decimal.RequireFromString("18.50"), ImageRef: "/static/img/milanesa-pollo.jpg"},
		{ID: 3, Name: "Milanesa a Caballo", UnitPrice: decimal.RequireFromString("22.00"), ImageRef: "/static/img/milanesa-caballo.jpg"},
		{ID: 4, Name: "Milanesa Fugazzeta", UnitPrice: decimal.RequireFromString("20.00"), ImageRef: "/static/img/milanesa-fugazzeta.jpg"},
	}
	addOns := []AddOn{
		{ID: 1, Name: "Coca-Cola", UnitPrice: decimal.RequireFromString("1.50"), ImageRef: "/static/img/coca-cola.png"},
		{ID: 2, Name: "Pepsi", UnitPrice: decimal.RequireFromString("1.75"), ImageRef: "/static/img/pepsi.png"},
		{ID: 3, Name: "Sprite", UnitPrice: decimal.RequireFromString("1.25"), ImageRef: "/static/img/sprite.png"},
		{ID: 4, Name: "Fanta", UnitPrice: decimal.RequireFromString("1.60"), ImageRef: "/static/img/fanta.png"},
		{ID: 5, Name: "7Up", UnitPrice: decimal.RequireFromString("1.00"), ImageRef: "/static/img/7up.png"},
	}

	c, err := NewCatalog(products, addOns)
	if err != nil {
		panic(err)
	}
	return c
}
