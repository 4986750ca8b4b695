package crm

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/starford/salesdesk/internal/apperr"
	"github.com/starford/salesdesk/internal/models"
)

// AddClient validates f and appends a new client with a fresh id. No sales
// rep is touched.
func (s *Store) AddClient(ctx context.Context, f ClientFields) (models.Client, error) {
	if err := f.Validate(); err != nil {
		return models.Client{}, err
	}
	n := f.normalize()
	c := models.Client{
		ID:      newEntityID(clientPrefix),
		Name:    n.Name,
		Address: n.Address,
		Phone:   n.Phone,
		Email:   n.Email,
	}
	_, err := s.replace(ctx, func(next *models.Dataset) (Change, error) {
		next.Clients = append(slices.Clip(next.Clients), c)
		return Change{Kind: ChangeClientCreated, ID: c.ID}, nil
	})
	if err != nil {
		return models.Client{}, err
	}
	return c, nil
}

// AddProduct validates f and appends a new catalog product.
func (s *Store) AddProduct(ctx context.Context, f ProductFields) (models.Product, error) {
	p, err := newProduct(f)
	if err != nil {
		return models.Product{}, err
	}
	_, err = s.replace(ctx, func(next *models.Dataset) (Change, error) {
		next.Products = append(slices.Clip(next.Products), p)
		return Change{Kind: ChangeProductCreated, ID: p.ID}, nil
	})
	if err != nil {
		return models.Product{}, err
	}
	return p, nil
}

// AttachProductToRep adds a product to a rep's product set. With
// sel.ExistingID the existing product is reused; otherwise a new product is
// created from sel.Fields. Attaching an id the rep already has changes
// nothing. An unknown rep or existing id returns apperr.ErrNotFound and
// leaves the store untouched.
func (s *Store) AttachProductToRep(ctx context.Context, repID string, sel ProductSelection) (models.Product, error) {
	var created *models.Product
	if sel.ExistingID == "" {
		p, err := newProduct(sel.Fields)
		if err != nil {
			return models.Product{}, err
		}
		created = &p
	}

	var attached models.Product
	_, err := s.replace(ctx, func(next *models.Dataset) (Change, error) {
		ri := slices.IndexFunc(next.SalesReps, func(r models.SalesRep) bool { return r.ID == repID })
		if ri < 0 {
			return Change{}, fmt.Errorf("crm: sales rep %q: %w", repID, apperr.ErrNotFound)
		}

		if created != nil {
			attached = *created
			next.Products = append(slices.Clip(next.Products), attached)
		} else {
			p, ok := findProduct(next.Products, sel.ExistingID)
			if !ok {
				return Change{}, fmt.Errorf("crm: product %q: %w", sel.ExistingID, apperr.ErrNotFound)
			}
			attached = p
			if next.SalesReps[ri].Products.Contains(p.ID) {
				return Change{}, errNoChange
			}
		}

		reps := slices.Clone(next.SalesReps)
		reps[ri].Products = reps[ri].Products.Add(attached.ID)
		next.SalesReps = reps
		return Change{Kind: ChangeRepUpdated, ID: repID, Related: attached.ID}, nil
	})
	if err != nil && !errors.Is(err, errNoChange) {
		return models.Product{}, err
	}
	return attached, nil
}

// AttachClientToRep adds an existing client to a rep's client set, with the
// same set semantics as AttachProductToRep.
func (s *Store) AttachClientToRep(ctx context.Context, repID, clientID string) error {
	_, err := s.replace(ctx, func(next *models.Dataset) (Change, error) {
		ri := slices.IndexFunc(next.SalesReps, func(r models.SalesRep) bool { return r.ID == repID })
		if ri < 0 {
			return Change{}, fmt.Errorf("crm: sales rep %q: %w", repID, apperr.ErrNotFound)
		}
		if _, ok := findClient(next.Clients, clientID); !ok {
			return Change{}, fmt.Errorf("crm: client %q: %w", clientID, apperr.ErrNotFound)
		}
		if next.SalesReps[ri].Clients.Contains(clientID) {
			return Change{}, errNoChange
		}
		reps := slices.Clone(next.SalesReps)
		reps[ri].Clients = reps[ri].Clients.Add(clientID)
		next.SalesReps = reps
		return Change{Kind: ChangeRepUpdated, ID: repID, Related: clientID}, nil
	})
	if errors.Is(err, errNoChange) {
		return nil
	}
	return err
}

// SetOrderItemConfirmed sets the confirmed flag of one order line. It
// reports false, and changes nothing, when the order or the line does not
// exist.
func (s *Store) SetOrderItemConfirmed(ctx context.Context, orderID, productID string, confirmed bool) bool {
	_, err := s.replace(ctx, func(next *models.Dataset) (Change, error) {
		oi := slices.IndexFunc(next.Orders, func(o models.Order) bool { return o.ID == orderID })
		if oi < 0 {
			return Change{}, errNoChange
		}
		ii := slices.IndexFunc(next.Orders[oi].Items, func(it models.OrderItem) bool { return it.ProductID == productID })
		if ii < 0 {
			return Change{}, errNoChange
		}

		items := slices.Clone(next.Orders[oi].Items)
		items[ii].Confirmed = confirmed
		orders := slices.Clone(next.Orders)
		orders[oi].Items = items
		next.Orders = orders
		return Change{Kind: ChangeOrderUpdated, ID: orderID, Related: productID}, nil
	})
	return err == nil
}

func newProduct(f ProductFields) (models.Product, error) {
	if err := f.Validate(); err != nil {
		return models.Product{}, err
	}
	n := f.normalize()
	return models.Product{
		ID:          newEntityID(productPrefix),
		Name:        n.Name,
		Description: n.Description,
		Unit:        models.Unit(n.Unit),
	}, nil
}
