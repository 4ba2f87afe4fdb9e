package inventory

import (
	"context"

	"devinv/internal/domain"
)

// MemoryStore addresses records by 0-based position. Positions compact after a
// Remove, so the id of every later record shifts down by one.
type MemoryStore struct {
	items []domain.Device
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) Add(_ context.Context, d domain.Device) (domain.Device, error) {
	if err := d.Check(); err != nil {
		return domain.Device{}, err
	}
	s.items = append(s.items, d.Clone())
	return s.at(len(s.items) - 1), nil
}

func (s *MemoryStore) AddAll(_ context.Context, ds []domain.Device) ([]domain.Device, error) {
	for _, d := range ds {
		if err := d.Check(); err != nil {
			return nil, err
		}
	}
	start := len(s.items)
	for _, d := range ds {
		s.items = append(s.items, d.Clone())
	}
	out := make([]domain.Device, 0, len(ds))
	for i := start; i < len(s.items); i++ {
		out = append(out, s.at(i))
	}
	return out, nil
}

func (s *MemoryStore) Remove(_ context.Context, id int64) error {
	if !s.valid(id) {
		return nil
	}
	s.items = append(s.items[:id], s.items[id+1:]...)
	return nil
}

func (s *MemoryStore) Replace(_ context.Context, id int64, d domain.Device) error {
	if !s.valid(id) {
		return nil
	}
	if err := d.Check(); err != nil {
		return err
	}
	s.items[id] = d.Clone()
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id int64) (domain.Device, error) {
	if !s.valid(id) {
		return domain.Device{}, domain.ErrNotFound
	}
	return s.at(int(id)), nil
}

func (s *MemoryStore) List(_ context.Context) ([]domain.Device, error) {
	out := make([]domain.Device, len(s.items))
	for i := range s.items {
		out[i] = s.at(i)
	}
	return out, nil
}

func (s *MemoryStore) Clear(_ context.Context) (int64, error) {
	n := int64(len(s.items))
	s.items = nil
	return n, nil
}

func (s *MemoryStore) Len() int { return len(s.items) }

func (s *MemoryStore) valid(id int64) bool { return id >= 0 && id < int64(len(s.items)) }

// at returns a copy stamped with its current position.
func (s *MemoryStore) at(i int) domain.Device {
	d := s.items[i].Clone()
	d.ID = int64(i)
	return d
}
