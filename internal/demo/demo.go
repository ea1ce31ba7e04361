// Package demo is the offline/demo backend: a seeded in-memory store
// implementing the same storefront and admin operations as the MySQL
// handlers. The server boots against it when DEMO_MODE is on (or no DSN
// is configured), so "no database" is an explicit mode rather than a
// silent per-request fallback.
package demo

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sapasaja/bukuku-api/internal/models"
	"github.com/sapasaja/bukuku-api/internal/pricing"
)

var (
	ErrBookNotFound         = errors.New("demo: book not found")
	ErrCategoryNotFound     = errors.New("demo: category not found")
	ErrUserNotFound         = errors.New("demo: user not found")
	ErrEmailTaken           = errors.New("demo: email already registered")
	ErrCartItemNotFound     = errors.New("demo: item not in cart")
	ErrEmptyCart            = errors.New("demo: cart is empty")
	ErrBookUnavailable      = errors.New("demo: book no longer available")
	ErrInsufficientStock    = errors.New("demo: insufficient stock")
	ErrOrderNotFound        = errors.New("demo: order not found")
	ErrIllegalTransition    = errors.New("demo: illegal status transition")
	ErrNotificationNotFound = errors.New("demo: notification not found")
)

// Store holds all demo-mode state behind one mutex. The request model is
// the same as the DB path: one mutation at a time, no cross-request
// hazards to care about beyond the lock.
type Store struct {
	mu sync.Mutex

	books         []models.Book
	categories    []models.Category
	users         []models.User
	carts         map[int64][]models.CartItem // userID -> lines
	orders        []models.Order
	notifications []models.Notification

	nextBookID  int64
	nextUserID  int64
	nextOrderID int64
	nextNotifID int64
	nextCatID   int64

	cartFile string
}

// NewStore returns a store pre-populated with the demo dataset.
func NewStore() *Store {
	s := &Store{carts: make(map[int64][]models.CartItem)}
	s.seed()
	return s
}

// UseCartFile makes cart state durable across restarts by snapshotting
// it to path after every mutation. A missing or corrupt file resets the
// carts to empty instead of failing.
func (s *Store) UseCartFile(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cartFile = path

	raw, err := os.ReadFile(path)
	if err != nil {
		return // absent: start empty
	}

	restored := make(map[int64][]models.CartItem)
	if err := json.Unmarshal(raw, &restored); err != nil {
		log.Printf("demo: cart file %s is corrupt, resetting carts: %v", path, err)
		s.carts = make(map[int64][]models.CartItem)
		return
	}
	s.carts = restored
}

// saveCarts persists the cart map. Callers must hold s.mu.
func (s *Store) saveCarts() {
	if s.cartFile == "" {
		return
	}
	raw, err := json.Marshal(s.carts)
	if err != nil {
		return
	}
	if err := os.WriteFile(s.cartFile, raw, 0644); err != nil {
		log.Printf("demo: failed to persist carts: %v", err)
	}
}

func (s *Store) bookByID(id int64) *models.Book {
	for i := range s.books {
		if s.books[i].ID == id {
			return &s.books[i]
		}
	}
	return nil
}

//
// --- Cart Accumulator ---
//

// GetCart returns the cart lines for a user, with current stock joined
// from the catalog and line totals computed from the add-time snapshot.
func (s *Store) GetCart(userID int64) []models.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cartLines(userID)
}

func (s *Store) cartLines(userID int64) []models.CartLine {
	lines := []models.CartLine{}
	for _, item := range s.carts[userID] {
		line := models.CartLine{
			BookID:    item.BookID,
			Price:     item.PriceAtAdd,
			Quantity:  item.Quantity,
			LineTotal: item.PriceAtAdd * float64(item.Quantity),
		}
		if book := s.bookByID(item.BookID); book != nil {
			line.Title = book.Title
			line.Author = book.Author
			line.CoverImage = book.CoverImage
			line.Stock = book.Stock
		}
		lines = append(lines, line)
	}
	return lines
}

// AddToCart merges by book: a second add of the same book increments the
// existing line's quantity, so there is at most one line per book.
func (s *Store) AddToCart(userID, bookID int64, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	book := s.bookByID(bookID)
	if book == nil || book.Status != "active" {
		return ErrBookNotFound
	}
	if book.Stock < quantity {
		return ErrInsufficientStock
	}

	items := s.carts[userID]
	for i := range items {
		if items[i].BookID == bookID {
			items[i].Quantity += quantity
			items[i].UpdatedAt = time.Now()
			s.saveCarts()
			return nil
		}
	}

	now := time.Now()
	s.carts[userID] = append(items, models.CartItem{
		ID:         now.UnixNano(),
		CartID:     userID,
		BookID:     bookID,
		Quantity:   quantity,
		PriceAtAdd: book.Price, // snapshot, never re-synced
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	s.saveCarts()
	return nil
}

// UpdateQuantity sets a line's quantity. Zero (or negative) removes the
// line entirely.
func (s *Store) UpdateQuantity(userID, bookID int64, quantity int) error {
	if quantity <= 0 {
		return s.RemoveFromCart(userID, bookID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.carts[userID]
	for i := range items {
		if items[i].BookID == bookID {
			items[i].Quantity = quantity
			items[i].UpdatedAt = time.Now()
			s.saveCarts()
			return nil
		}
	}
	return ErrCartItemNotFound
}

// RemoveFromCart deletes the matching line.
func (s *Store) RemoveFromCart(userID, bookID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.carts[userID]
	for i := range items {
		if items[i].BookID == bookID {
			s.carts[userID] = append(items[:i], items[i+1:]...)
			s.saveCarts()
			return nil
		}
	}
	return ErrCartItemNotFound
}

// ClearCart empties the user's cart.
func (s *Store) ClearCart(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID)
	s.saveCarts()
}

//
// --- Orders ---
//

// Checkout turns the user's cart into an order: one order row plus one
// item per cart line (unit price = add-time snapshot), stock decremented,
// cart cleared. The cart is only cleared once the order exists.
func (s *Store) Checkout(userID int64, shipping models.ShippingInfo) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.carts[userID]
	if len(items) == 0 {
		return models.Order{}, ErrEmptyCart
	}

	var subtotal float64
	for _, item := range items {
		book := s.bookByID(item.BookID)
		if book == nil || book.Status != "active" {
			return models.Order{}, ErrBookUnavailable
		}
		if book.Stock < item.Quantity {
			return models.Order{}, ErrInsufficientStock
		}
		subtotal += item.PriceAtAdd * float64(item.Quantity)
	}

	now := time.Now()
	s.nextOrderID++
	order := models.Order{
		ID:                 s.nextOrderID,
		OrderNumber:        models.NewOrderNumber(now),
		UserID:             userID,
		TotalAmount:        pricing.FinalTotal(subtotal),
		Status:             models.OrderPending,
		PaymentStatus:      models.PaymentPending,
		ShippingName:       shipping.Name,
		ShippingPhone:      shipping.Phone,
		ShippingAddress:    shipping.Address,
		ShippingCity:       shipping.City,
		ShippingPostalCode: shipping.PostalCode,
		ShippingCost:       pricing.ShippingCost(subtotal),
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if shipping.Notes != "" {
		notes := shipping.Notes
		order.ShippingNotes = &notes
	}

	for i, item := range items {
		book := s.bookByID(item.BookID)
		book.Stock -= item.Quantity
		order.Items = append(order.Items, models.OrderItem{
			ID:        order.ID*100 + int64(i),
			OrderID:   order.ID,
			BookID:    item.BookID,
			BookTitle: book.Title,
			Quantity:  item.Quantity,
			UnitPrice: item.PriceAtAdd,
			LineTotal: item.PriceAtAdd * float64(item.Quantity),
			CreatedAt: now,
		})
	}

	s.orders = append(s.orders, order)
	delete(s.carts, userID)
	s.saveCarts()
	return order, nil
}

// ListOrdersByUser returns a user's orders, newest first, optionally
// filtered by status.
func (s *Store) ListOrdersByUser(userID int64, status string) []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders := []models.Order{}
	for _, o := range s.orders {
		if o.UserID != userID {
			continue
		}
		if status != "" && string(o.Status) != status {
			continue
		}
		orders = append(orders, o)
	}
	sortOrdersNewestFirst(orders)
	return orders
}

// GetOrder returns one order by id, scoped to its owner.
func (s *Store) GetOrder(id, userID int64) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range s.orders {
		if o.ID == id && o.UserID == userID {
			return o, nil
		}
	}
	return models.Order{}, ErrOrderNotFound
}

// ListOrders is the admin view: all orders with customer info joined,
// filtered by free-text search (order number, customer name or email)
// and status, capped at limit.
func (s *Store) ListOrders(search, status string, limit int) []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = models.DefaultBookLimit
	}
	term := strings.ToLower(search)

	orders := []models.Order{}
	for _, o := range s.orders {
		if u := s.userByID(o.UserID); u != nil {
			o.CustomerName = u.Name
			o.CustomerEmail = u.Email
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(o.OrderNumber), term) &&
			!strings.Contains(strings.ToLower(o.CustomerName), term) &&
			!strings.Contains(strings.ToLower(o.CustomerEmail), term) {
			continue
		}
		if status != "" && string(o.Status) != status {
			continue
		}
		orders = append(orders, o)
	}
	sortOrdersNewestFirst(orders)
	if len(orders) > limit {
		orders = orders[:limit]
	}
	return orders
}

// UpdateOrderStatus applies the transition table and notifies the
// order's owner on success.
func (s *Store) UpdateOrderStatus(id int64, next models.OrderStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.orders {
		if s.orders[i].ID != id {
			continue
		}
		if !s.orders[i].Status.CanTransitionTo(next) {
			return ErrIllegalTransition
		}
		s.orders[i].Status = next
		s.orders[i].UpdatedAt = time.Now()
		s.addNotification(s.orders[i].UserID,
			fmt.Sprintf("Status pesanan %s berubah menjadi %s", s.orders[i].OrderNumber, next),
			fmt.Sprintf("/orders/%d", s.orders[i].ID))
		return nil
	}
	return ErrOrderNotFound
}

// UpdateTracking stores tracking number and shipping notes verbatim.
func (s *Store) UpdateTracking(id int64, trackingNumber, shippingNotes *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.orders {
		if s.orders[i].ID != id {
			continue
		}
		if trackingNumber != nil {
			s.orders[i].TrackingNumber = trackingNumber
		}
		if shippingNotes != nil {
			s.orders[i].ShippingNotes = shippingNotes
		}
		s.orders[i].UpdatedAt = time.Now()
		return nil
	}
	return ErrOrderNotFound
}

// UpdatePaymentStatus sets the independent payment axis.
func (s *Store) UpdatePaymentStatus(id int64, next models.PaymentStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.orders {
		if s.orders[i].ID != id {
			continue
		}
		s.orders[i].PaymentStatus = next
		s.orders[i].UpdatedAt = time.Now()
		return nil
	}
	return ErrOrderNotFound
}

// CancelOverdueOrders cancels unpaid pending orders created before the
// cutoff, returns their items to stock, notifies each owner, and reports
// how many it touched.
func (s *Store) CancelOverdueOrders(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cancelled := 0
	for i := range s.orders {
		o := &s.orders[i]
		if o.Status == models.OrderPending && o.PaymentStatus == models.PaymentPending && o.CreatedAt.Before(cutoff) {
			o.Status = models.OrderCancelled
			o.UpdatedAt = time.Now()
			for _, item := range o.Items {
				if book := s.bookByID(item.BookID); book != nil {
					book.Stock += item.Quantity
				}
			}
			s.addNotification(o.UserID,
				fmt.Sprintf("Pesanan %s dibatalkan karena pembayaran tidak diterima", o.OrderNumber),
				fmt.Sprintf("/orders/%d", o.ID))
			cancelled++
		}
	}
	return cancelled
}

func sortOrdersNewestFirst(orders []models.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		if orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].ID > orders[j].ID
		}
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}

//
// --- Notifications ---
//

// addNotification appends a notification. Callers must hold s.mu.
func (s *Store) addNotification(userID int64, message, link string) {
	s.nextNotifID++
	n := models.Notification{
		ID:        s.nextNotifID,
		UserID:    userID,
		Message:   message,
		IsRead:    false,
		CreatedAt: time.Now(),
	}
	if link != "" {
		n.Link.String = link
		n.Link.Valid = true
	}
	s.notifications = append(s.notifications, n)
}

// ListNotifications returns a user's notifications, unread and newest
// first.
func (s *Store) ListNotifications(userID int64) []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := []models.Notification{}
	for _, n := range s.notifications {
		if n.UserID == userID {
			list = append(list, n)
		}
	}
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].IsRead != list[j].IsRead {
			return !list[i].IsRead
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list
}

// MarkNotificationRead flips is_read for a notification owned by userID.
func (s *Store) MarkNotificationRead(id, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.notifications {
		if s.notifications[i].ID == id && s.notifications[i].UserID == userID {
			s.notifications[i].IsRead = true
			return nil
		}
	}
	return ErrNotificationNotFound
}
