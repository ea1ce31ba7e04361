package demo

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sapasaja/bukuku-api/internal/models"
	"github.com/sapasaja/bukuku-api/internal/pricing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const customerID int64 = 2

var testShipping = models.ShippingInfo{
	Name:       "Budi",
	Phone:      "0812000111",
	Address:    "Jl. Merdeka 1",
	City:       "Jakarta",
	PostalCode: "10110",
}

func TestAddToCartMergesSameBook(t *testing.T) {
	s := NewStore()

	require.NoError(t, s.AddToCart(customerID, 1, 2))
	require.NoError(t, s.AddToCart(customerID, 1, 3))

	lines := s.GetCart(customerID)
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)
	assert.Equal(t, 85000.0, lines[0].Price)
	assert.Equal(t, 5*85000.0, lines[0].LineTotal)
}

func TestAddToCartKeepsPriceSnapshot(t *testing.T) {
	s := NewStore()

	require.NoError(t, s.AddToCart(customerID, 1, 1))

	// Raise the catalog price after the item is in the cart.
	book, err := s.GetBook(1)
	require.NoError(t, err)
	book.Price = 99000
	_, err = s.UpdateBook(1, book, "Fiksi")
	require.NoError(t, err)

	lines := s.GetCart(customerID)
	require.Len(t, lines, 1)
	assert.Equal(t, 85000.0, lines[0].Price, "cart keeps the add-time price")

	// A different book added later snapshots the new price as usual.
	require.NoError(t, s.AddToCart(customerID, 4, 1))
	lines = s.GetCart(customerID)
	require.Len(t, lines, 2)
}

func TestAddToCartRejectsMissingBook(t *testing.T) {
	s := NewStore()

	assert.ErrorIs(t, s.AddToCart(customerID, 999, 1), ErrBookNotFound)

	// A book removed from the catalog cannot be added anymore.
	require.NoError(t, s.DeleteBook(1))
	assert.ErrorIs(t, s.AddToCart(customerID, 1, 1), ErrBookNotFound)
}

func TestAddToCartRejectsOverStock(t *testing.T) {
	s := NewStore()
	// Laskar Pelangi seeds with 25 in stock.
	assert.ErrorIs(t, s.AddToCart(customerID, 1, 26), ErrInsufficientStock)
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	s := NewStore()

	require.NoError(t, s.AddToCart(customerID, 1, 2))
	require.NoError(t, s.UpdateQuantity(customerID, 1, 0))

	assert.Empty(t, s.GetCart(customerID))

	// Removing what is not there is an error either way.
	assert.ErrorIs(t, s.RemoveFromCart(customerID, 1), ErrCartItemNotFound)
	assert.ErrorIs(t, s.UpdateQuantity(customerID, 1, 5), ErrCartItemNotFound)
}

func TestCartTotalsAcrossLines(t *testing.T) {
	s := NewStore()

	require.NoError(t, s.AddToCart(customerID, 1, 2)) // 2 x 85000
	require.NoError(t, s.AddToCart(customerID, 4, 1)) // 1 x 78000

	totalItems, subtotal := pricing.CartTotals(s.GetCart(customerID))
	assert.Equal(t, 3, totalItems)
	assert.Equal(t, 248000.0, subtotal)
	assert.Equal(t, 0.0, pricing.ShippingCost(subtotal), "248000 clears free shipping")
}

func TestUseCartFileCorruptResetsToEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "carts.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	s := NewStore()
	require.NoError(t, s.AddToCart(customerID, 1, 1))

	s.UseCartFile(path)
	assert.Empty(t, s.GetCart(customerID), "corrupt file resets carts instead of failing")
}

func TestUseCartFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "carts.json")

	s := NewStore()
	s.UseCartFile(path)
	require.NoError(t, s.AddToCart(customerID, 1, 2))

	restarted := NewStore()
	restarted.UseCartFile(path)

	lines := restarted.GetCart(customerID)
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestListBooksSearchIsCaseInsensitive(t *testing.T) {
	s := NewStore()

	books := s.ListBooks(models.BookFilter{Search: "atomic"})
	require.Len(t, books, 1)
	assert.Equal(t, "Atomic Habits", books[0].Title)

	// Author names match too.
	books = s.ListBooks(models.BookFilter{Search: "james clear"})
	require.Len(t, books, 1)

	books = s.ListBooks(models.BookFilter{Search: "tidak ada"})
	assert.Empty(t, books)
}

func TestListBooksFilters(t *testing.T) {
	s := NewStore()

	for _, b := range s.ListBooks(models.BookFilter{Featured: true}) {
		assert.True(t, b.Featured)
	}
	for _, b := range s.ListBooks(models.BookFilter{Category: "fiksi"}) {
		assert.Equal(t, "Fiksi", b.Category)
	}

	// Newest first.
	books := s.ListBooks(models.BookFilter{})
	require.NotEmpty(t, books)
	for i := 1; i < len(books); i++ {
		assert.False(t, books[i].CreatedAt.After(books[i-1].CreatedAt))
	}
}

func TestCheckoutCreatesOrderAndClearsCart(t *testing.T) {
	s := NewStore()

	before, err := s.GetBook(1)
	require.NoError(t, err)

	require.NoError(t, s.AddToCart(customerID, 1, 2))
	require.NoError(t, s.AddToCart(customerID, 4, 1))

	order, err := s.Checkout(customerID, testShipping)
	require.NoError(t, err)

	assert.Equal(t, models.OrderPending, order.Status)
	assert.Equal(t, models.PaymentPending, order.PaymentStatus)
	assert.Equal(t, 248000.0, order.TotalAmount)
	assert.Equal(t, 0.0, order.ShippingCost)
	assert.Regexp(t, `^BK-\d+$`, order.OrderNumber)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "Laskar Pelangi", order.Items[0].BookTitle)
	assert.Equal(t, 85000.0, order.Items[0].UnitPrice)

	assert.Empty(t, s.GetCart(customerID), "checkout clears the cart")

	after, err := s.GetBook(1)
	require.NoError(t, err)
	assert.Equal(t, before.Stock-2, after.Stock, "checkout decrements stock")
}

func TestCheckoutChargesFlatShippingBelowThreshold(t *testing.T) {
	s := NewStore()

	require.NoError(t, s.AddToCart(customerID, 4, 1)) // 78000

	order, err := s.Checkout(customerID, testShipping)
	require.NoError(t, err)
	assert.Equal(t, 15000.0, order.ShippingCost)
	assert.Equal(t, 93000.0, order.TotalAmount)
}

func TestCheckoutEmptyCart(t *testing.T) {
	s := NewStore()

	_, err := s.Checkout(customerID, testShipping)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckoutInsufficientStockKeepsCart(t *testing.T) {
	s := NewStore()

	require.NoError(t, s.AddToCart(customerID, 6, 10))

	// Someone else buys out most of the remaining stock.
	book, err := s.GetBook(6)
	require.NoError(t, err)
	book.Stock = 3
	_, err = s.UpdateBook(6, book, "")
	require.NoError(t, err)

	_, err = s.Checkout(customerID, testShipping)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Len(t, s.GetCart(customerID), 1, "failed checkout leaves the cart intact")
}

func TestCheckoutRejectsInactiveBookKeepsCart(t *testing.T) {
	s := NewStore()

	require.NoError(t, s.AddToCart(customerID, 1, 1))
	require.NoError(t, s.AddToCart(customerID, 3, 1))

	// Book taken off the shelf after the customer added it.
	s.mu.Lock()
	s.bookByID(1).Status = "inactive"
	s.mu.Unlock()

	_, err := s.Checkout(customerID, testShipping)
	assert.ErrorIs(t, err, ErrBookUnavailable)
	assert.Len(t, s.GetCart(customerID), 2, "failed checkout leaves the cart intact")
}

func TestUpdateOrderStatusTransitions(t *testing.T) {
	s := NewStore()

	// Seed order 2 is pending.
	require.NoError(t, s.UpdateOrderStatus(2, models.OrderProcessing))
	require.NoError(t, s.UpdateOrderStatus(2, models.OrderShipped))
	require.NoError(t, s.UpdateOrderStatus(2, models.OrderDelivered))

	// Delivered is terminal.
	assert.ErrorIs(t, s.UpdateOrderStatus(2, models.OrderCancelled), ErrIllegalTransition)

	// Seed order 1 is already delivered.
	assert.ErrorIs(t, s.UpdateOrderStatus(1, models.OrderPending), ErrIllegalTransition)

	assert.ErrorIs(t, s.UpdateOrderStatus(999, models.OrderProcessing), ErrOrderNotFound)
}

func TestUpdateOrderStatusNotifiesOwner(t *testing.T) {
	s := NewStore()

	before := len(s.ListNotifications(customerID))
	require.NoError(t, s.UpdateOrderStatus(2, models.OrderProcessing))

	notifications := s.ListNotifications(customerID)
	require.Len(t, notifications, before+1)
	assert.Contains(t, notifications[0].Message, "processing")
	require.True(t, notifications[0].Link.Valid)
	assert.Equal(t, "/orders/2", notifications[0].Link.String)
}

func TestUpdateTrackingStoredVerbatim(t *testing.T) {
	s := NewStore()

	tracking := " JNE 00 99 "
	notes := "Titip di pos satpam"
	require.NoError(t, s.UpdateTracking(2, &tracking, &notes))

	order, err := s.GetOrder(2, customerID)
	require.NoError(t, err)
	require.NotNil(t, order.TrackingNumber)
	assert.Equal(t, tracking, *order.TrackingNumber, "no trimming or normalization")
	require.NotNil(t, order.ShippingNotes)
	assert.Equal(t, notes, *order.ShippingNotes)
}

func TestPaymentStatusIndependentOfOrderStatus(t *testing.T) {
	s := NewStore()

	require.NoError(t, s.UpdatePaymentStatus(2, models.PaymentPaid))

	order, err := s.GetOrder(2, customerID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, order.PaymentStatus)
	assert.Equal(t, models.OrderPending, order.Status, "payment change leaves fulfillment alone")
}

func TestListOrdersSearchAndStatus(t *testing.T) {
	s := NewStore()

	orders := s.ListOrders("customer@bukuku.com", "", 50)
	assert.Len(t, orders, 2)
	for _, o := range orders {
		assert.Equal(t, "customer@bukuku.com", o.CustomerEmail)
	}

	orders = s.ListOrders("", "pending", 50)
	require.Len(t, orders, 1)
	assert.Equal(t, int64(2), orders[0].ID)

	orders = s.ListOrders("nggak-ada", "", 50)
	assert.Empty(t, orders)
}

func TestGetOrderScopedToOwner(t *testing.T) {
	s := NewStore()

	_, err := s.GetOrder(2, customerID)
	require.NoError(t, err)

	// The admin user does not own order 2.
	_, err = s.GetOrder(2, 1)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestCancelOverdueOrders(t *testing.T) {
	s := NewStore()

	stockBefore, err := s.GetBook(3)
	require.NoError(t, err)
	notifsBefore := len(s.ListNotifications(customerID))

	// Seed order 2 is pending/pending and old; order 1 is delivered.
	n := s.CancelOverdueOrders(time.Now().Add(-24 * time.Hour))
	assert.Equal(t, 1, n)

	order, err := s.GetOrder(2, customerID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, order.Status)

	// Order 2 held 1x book 3; cancelling puts it back on the shelf.
	stockAfter, err := s.GetBook(3)
	require.NoError(t, err)
	assert.Equal(t, stockBefore.Stock+1, stockAfter.Stock)

	notifications := s.ListNotifications(customerID)
	require.Len(t, notifications, notifsBefore+1)
	assert.Contains(t, notifications[0].Message, order.OrderNumber)
	assert.Contains(t, notifications[0].Message, "dibatalkan")

	order, err = s.GetOrder(1, customerID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderDelivered, order.Status, "paid orders are untouched")

	// Nothing left to cancel on a second sweep.
	assert.Equal(t, 0, s.CancelOverdueOrders(time.Now().Add(-24*time.Hour)))
}

func TestRegisterUserDuplicateEmail(t *testing.T) {
	s := NewStore()

	_, err := s.RegisterUser("Budi", "budi@example.com", "hash", nil)
	require.NoError(t, err)

	_, err = s.RegisterUser("Budi Lagi", "budi@example.com", "hash", nil)
	assert.ErrorIs(t, err, ErrEmailTaken)

	// Seeded accounts are taken too.
	_, err = s.RegisterUser("X", "customer@bukuku.com", "hash", nil)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestFindUserByEmailActiveOnly(t *testing.T) {
	s := NewStore()

	user, err := s.FindUserByEmail("customer@bukuku.com")
	require.NoError(t, err)

	_, err = s.UpdateUser(user.ID, user.Name, user.Role, "inactive", user.Phone, user.Address)
	require.NoError(t, err)

	_, err = s.FindUserByEmail("customer@bukuku.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestMarkNotificationReadScopedToOwner(t *testing.T) {
	s := NewStore()

	require.NoError(t, s.UpdateOrderStatus(2, models.OrderProcessing))
	notifications := s.ListNotifications(customerID)
	require.NotEmpty(t, notifications)

	id := notifications[0].ID
	assert.ErrorIs(t, s.MarkNotificationRead(id, 1), ErrNotificationNotFound)

	require.NoError(t, s.MarkNotificationRead(id, customerID))
	assert.True(t, s.ListNotifications(customerID)[0].IsRead)
}

func TestStats(t *testing.T) {
	s := NewStore()
	stats := s.Stats()

	assert.Equal(t, 6, stats.TotalBooks)
	assert.Equal(t, 1, stats.TotalUsers, "customers only")
	assert.Equal(t, 2, stats.TotalOrders)
	assert.Equal(t, 265000.0, stats.TotalRevenue, "delivered order only; pending excluded")

	require.NotEmpty(t, stats.TopBooks)
	assert.Equal(t, "Laskar Pelangi", stats.TopBooks[0].Title)
	assert.Equal(t, 2, stats.TopBooks[0].Sales)

	require.NotEmpty(t, stats.TopCategories)
	assert.Equal(t, "Fiksi", stats.TopCategories[0].Name)
	assert.Equal(t, 3, stats.TopCategories[0].Sales)
}
