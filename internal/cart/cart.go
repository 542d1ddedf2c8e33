package cart

import (
	"sync"

	"github.com/gelios02/HardwareStore/internal/domain/models"
)

// Cart - корзина одной сессии: товар -> желаемое количество.
// Порядок добавления сохраняется, чтобы снимок корзины (и сообщения об
// ошибках при оформлении) были воспроизводимыми.
type Cart struct {
	quantities map[int64]int
	order      []int64
}

func newCart() *Cart {
	return &Cart{quantities: make(map[int64]int)}
}

// Add увеличивает желаемое количество товара
func (c *Cart) Add(productID int64, qty int) {
	if qty <= 0 {
		return
	}
	if _, ok := c.quantities[productID]; !ok {
		c.order = append(c.order, productID)
	}
	c.quantities[productID] += qty
}

// Update выставляет новое количество; значение <= 0 удаляет позицию
func (c *Cart) Update(productID int64, qty int) {
	if _, ok := c.quantities[productID]; !ok {
		return
	}
	if qty <= 0 {
		c.remove(productID)
		return
	}
	c.quantities[productID] = qty
}

// Remove убирает товар из корзины
func (c *Cart) Remove(productID int64) {
	c.remove(productID)
}

func (c *Cart) remove(productID int64) {
	if _, ok := c.quantities[productID]; !ok {
		return
	}
	delete(c.quantities, productID)
	for i, id := range c.order {
		if id == productID {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Snapshot возвращает содержимое корзины в порядке добавления товаров
func (c *Cart) Snapshot() []models.CartItem {
	items := make([]models.CartItem, 0, len(c.order))
	for _, id := range c.order {
		items = append(items, models.CartItem{ProductID: id, Quantity: c.quantities[id]})
	}
	return items
}

// Clear опустошает корзину
func (c *Cart) Clear() {
	c.quantities = make(map[int64]int)
	c.order = nil
}

// Store хранит корзины всех активных сессий, ключ - идентификатор
// пользователя. Содержимое живёт только в памяти процесса: корзина по
// контракту не переживает сессию. Конкурентные запросы одной сессии
// работают по принципу "последняя запись побеждает", мьютекс нужен лишь
// для безопасного доступа к map.
type Store struct {
	mu    sync.Mutex
	carts map[int64]*Cart
}

func NewStore() *Store {
	return &Store{carts: make(map[int64]*Cart)}
}

// Add добавляет товар в корзину пользователя
func (s *Store) Add(userID, productID int64, qty int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.get(userID).Add(productID, qty)
}

// Update меняет количество товара в корзине пользователя
func (s *Store) Update(userID, productID int64, qty int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.get(userID).Update(productID, qty)
}

// Remove убирает товар из корзины пользователя
func (s *Store) Remove(userID, productID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.get(userID).Remove(productID)
}

// Snapshot возвращает снимок корзины пользователя
func (s *Store) Snapshot(userID int64) []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(userID).Snapshot()
}

// Clear опустошает корзину пользователя
func (s *Store) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.get(userID).Clear()
}

func (s *Store) get(userID int64) *Cart {
	c, ok := s.carts[userID]
	if !ok {
		c = newCart()
		s.carts[userID] = c
	}
	return c
}
