package models

// All returns every model in migration order.
func All() []interface{} {
	return []interface{}{
		&Customer{},
		&User{},
		&Address{},
		&Provider{},
		&Order{},
		&OrderHistory{},
		&CompanySettings{},
		&Complaint{},
		&Invoice{},
	}
}
