package models

// DashboardStats is the admin dashboard KPI payload.
type DashboardStats struct {
	TotalBooks    int           `json:"total_books"`
	TotalUsers    int           `json:"total_users"`
	TotalOrders   int           `json:"total_orders"`
	TotalRevenue  float64       `json:"total_revenue"`
	TopBooks      []TopBook     `json:"top_books"`
	TopCategories []TopCategory `json:"top_categories"`
}

// TopBook is one row of the best-sellers table: sales and revenue are
// counted over shipped and delivered orders only.
type TopBook struct {
	Title   string  `json:"title"`
	Author  string  `json:"author"`
	Sales   int     `json:"sales"`
	Revenue float64 `json:"revenue"`
}

// TopCategory aggregates the same sales per category.
type TopCategory struct {
	Name    string  `json:"name"`
	Sales   int     `json:"sales"`
	Revenue float64 `json:"revenue"`
}
