package demo

import (
	"sort"
	"time"

	"github.com/sapasaja/bukuku-api/internal/models"
)

const seedCover = "https://images.pexels.com/photos/159711/books-bookstore-book-reading-159711.jpeg?auto=compress&cs=tinysrgb&w=400"

// seedPasswordHash hashes the demo password once per process. Every
// seeded account logs in with "password".
var seedPasswordHash = func() string {
	var p models.Password
	if err := p.Set("password"); err != nil {
		panic(err)
	}
	return p.Hash
}()

func strPtr(s string) *string { return &s }

// seed loads the demo dataset: the same bookstore catalog, accounts and
// orders the storefront's offline mode always shipped with.
func (s *Store) seed() {
	base := time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)

	s.users = []models.User{
		{
			ID: 1, Email: "admin@bukuku.com", PasswordHash: seedPasswordHash,
			Name: "Administrator", Role: "admin", Status: "active", EmailVerified: true,
			Phone: strPtr("081234567890"), Address: strPtr("Jakarta, Indonesia"),
			CreatedAt: base, UpdatedAt: base,
		},
		{
			ID: 2, Email: "customer@bukuku.com", PasswordHash: seedPasswordHash,
			Name: "Customer Demo", Role: "customer", Status: "active", EmailVerified: true,
			Phone: strPtr("081234567891"), Address: strPtr("Bandung, Indonesia"),
			CreatedAt: base, UpdatedAt: base,
		},
	}
	s.nextUserID = 2

	s.categories = []models.Category{
		{ID: 1, Name: "Fiksi", Slug: "fiksi", Description: "Novel dan cerita fiksi", CreatedAt: base, UpdatedAt: base},
		{ID: 2, Name: "Non-Fiksi", Slug: "non-fiksi", Description: "Buku pengetahuan dan faktual", CreatedAt: base, UpdatedAt: base},
		{ID: 3, Name: "Pendidikan", Slug: "pendidikan", Description: "Buku pelajaran dan edukasi", CreatedAt: base, UpdatedAt: base},
		{ID: 4, Name: "Agama", Slug: "agama", Description: "Buku keagamaan dan spiritual", CreatedAt: base, UpdatedAt: base},
		{ID: 5, Name: "Teknologi", Slug: "teknologi", Description: "Buku teknologi dan komputer", CreatedAt: base, UpdatedAt: base},
		{ID: 6, Name: "Biografi", Slug: "biografi", Description: "Riwayat hidup tokoh", CreatedAt: base, UpdatedAt: base},
	}
	s.nextCatID = 6

	s.books = []models.Book{
		{
			ID: 1, Title: "Laskar Pelangi", Author: "Andrea Hirata", Price: 85000,
			Description: "Novel tentang perjuangan anak-anak sekolah di Belitung untuk mendapatkan pendidikan yang layak.",
			CategoryID:  1, Stock: 25, CoverImage: seedCover, PublishYear: 2005, ISBN: "9789792218305",
			Rating: 4.8, Reviews: 1250, Featured: true, Bestseller: true,
			Status: "active", CreatedAt: base, UpdatedAt: base,
		},
		{
			ID: 2, Title: "Bumi Manusia", Author: "Pramoedya Ananta Toer", Price: 95000,
			Description: "Novel sejarah Indonesia pada masa kolonial Belanda.",
			CategoryID:  1, Stock: 18, CoverImage: seedCover, PublishYear: 1980, ISBN: "9789794338045",
			Rating: 4.9, Reviews: 2100, Featured: true, Bestseller: true,
			Status: "active", CreatedAt: base.Add(time.Hour), UpdatedAt: base.Add(time.Hour),
		},
		{
			ID: 3, Title: "Atomic Habits", Author: "James Clear", Price: 120000,
			Description: "Panduan praktis untuk membangun kebiasaan baik dan menghilangkan kebiasaan buruk.",
			CategoryID:  2, Stock: 32, CoverImage: seedCover, PublishYear: 2018, ISBN: "9780735211292",
			Rating: 4.7, Reviews: 890, Featured: true, Bestseller: true,
			Status: "active", CreatedAt: base.Add(2 * time.Hour), UpdatedAt: base.Add(2 * time.Hour),
		},
		{
			ID: 4, Title: "Filosofi Teras", Author: "Henry Manampiring", Price: 78000,
			Description: "Pengantar filsafat Stoa untuk kehidupan sehari-hari.",
			CategoryID:  2, Stock: 40, CoverImage: seedCover, PublishYear: 2018, ISBN: "9786024125189",
			Rating: 4.6, Reviews: 670, Bestseller: true,
			Status: "active", CreatedAt: base.Add(3 * time.Hour), UpdatedAt: base.Add(3 * time.Hour),
		},
		{
			ID: 5, Title: "Sejarah Indonesia Modern", Author: "M.C. Ricklefs", Price: 150000,
			Description: "Sejarah lengkap Indonesia dari masa kolonial hingga era reformasi.",
			CategoryID:  3, Stock: 15, CoverImage: seedCover, PublishYear: 2020, ISBN: "9786020633473",
			Rating: 4.6, Reviews: 456, NewArrival: true,
			Status: "active", CreatedAt: base.Add(4 * time.Hour), UpdatedAt: base.Add(4 * time.Hour),
		},
		{
			ID: 6, Title: "JavaScript: The Good Parts", Author: "Douglas Crockford", Price: 180000,
			Description: "Panduan terbaik untuk memahami JavaScript dan praktik terbaik programming.",
			CategoryID:  5, Stock: 12, CoverImage: seedCover, PublishYear: 2008, ISBN: "9780596517748",
			Rating: 4.5, Reviews: 320, NewArrival: true,
			Status: "active", CreatedAt: base.Add(5 * time.Hour), UpdatedAt: base.Add(5 * time.Hour),
		},
	}
	s.nextBookID = 6

	orderDate := base.AddDate(0, 1, 0)
	s.orders = []models.Order{
		{
			ID: 1, OrderNumber: "BK-1707984000000", UserID: 2, TotalAmount: 265000,
			Status: models.OrderDelivered, PaymentStatus: models.PaymentPaid,
			ShippingName: "Customer Demo", ShippingPhone: "081234567891",
			ShippingAddress: "Jl. Asia Afrika No. 1", ShippingCity: "Bandung", ShippingPostalCode: "40111",
			ShippingCost: 0, TrackingNumber: strPtr("JNE1234567890"),
			CreatedAt: orderDate, UpdatedAt: orderDate.AddDate(0, 0, 4),
			Items: []models.OrderItem{
				{ID: 1, OrderID: 1, BookID: 1, BookTitle: "Laskar Pelangi", Quantity: 2, UnitPrice: 85000, LineTotal: 170000, CreatedAt: orderDate},
				{ID: 2, OrderID: 1, BookID: 2, BookTitle: "Bumi Manusia", Quantity: 1, UnitPrice: 95000, LineTotal: 95000, CreatedAt: orderDate},
			},
		},
		{
			ID: 2, OrderNumber: "BK-1708588800000", UserID: 2, TotalAmount: 135000,
			Status: models.OrderPending, PaymentStatus: models.PaymentPending,
			ShippingName: "Customer Demo", ShippingPhone: "081234567891",
			ShippingAddress: "Jl. Asia Afrika No. 1", ShippingCity: "Bandung", ShippingPostalCode: "40111",
			ShippingCost: 15000,
			CreatedAt:    orderDate.AddDate(0, 0, 7), UpdatedAt: orderDate.AddDate(0, 0, 7),
			Items: []models.OrderItem{
				{ID: 3, OrderID: 2, BookID: 3, BookTitle: "Atomic Habits", Quantity: 1, UnitPrice: 120000, LineTotal: 120000, CreatedAt: orderDate.AddDate(0, 0, 7)},
			},
		},
	}
	s.nextOrderID = 2
}

// Stats aggregates dashboard KPIs over the in-memory dataset, mirroring
// the SQL aggregates of the DB path.
func (s *Store) Stats() models.DashboardStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := models.DashboardStats{
		TopBooks:      []models.TopBook{},
		TopCategories: []models.TopCategory{},
	}

	for _, b := range s.books {
		if b.Status == "active" {
			stats.TotalBooks++
		}
	}
	for _, u := range s.users {
		if u.Role == "customer" {
			stats.TotalUsers++
		}
	}

	bookSales := map[int64]*models.TopBook{}
	catSales := map[int64]*models.TopCategory{}
	for _, o := range s.orders {
		stats.TotalOrders++
		if o.Status != models.OrderDelivered && o.Status != models.OrderShipped {
			continue
		}
		stats.TotalRevenue += o.TotalAmount
		for _, item := range o.Items {
			book := s.bookByID(item.BookID)
			if book == nil {
				continue
			}
			tb, ok := bookSales[book.ID]
			if !ok {
				tb = &models.TopBook{Title: book.Title, Author: book.Author}
				bookSales[book.ID] = tb
			}
			tb.Sales += item.Quantity
			tb.Revenue += item.LineTotal

			tc, ok := catSales[book.CategoryID]
			if !ok {
				tc = &models.TopCategory{Name: s.categoryName(book.CategoryID)}
				catSales[book.CategoryID] = tc
			}
			tc.Sales += item.Quantity
			tc.Revenue += item.LineTotal
		}
	}

	for _, tb := range bookSales {
		stats.TopBooks = append(stats.TopBooks, *tb)
	}
	for _, tc := range catSales {
		stats.TopCategories = append(stats.TopCategories, *tc)
	}
	sort.SliceStable(stats.TopBooks, func(i, j int) bool { return stats.TopBooks[i].Sales > stats.TopBooks[j].Sales })
	sort.SliceStable(stats.TopCategories, func(i, j int) bool { return stats.TopCategories[i].Sales > stats.TopCategories[j].Sales })
	if len(stats.TopBooks) > 5 {
		stats.TopBooks = stats.TopBooks[:5]
	}
	if len(stats.TopCategories) > 5 {
		stats.TopCategories = stats.TopCategories[:5]
	}
	return stats
}
