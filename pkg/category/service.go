package category

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"posflow/pkg/listing"
)

// Input carries the editable category fields.
type Input struct {
	Name             string `json:"name"`
	Description      string `json:"description"`
	ImageURL         string `json:"imageUrl"`
	ParentCategoryID string `json:"parentCategoryId"`
}

// Service enforces the tree rules on top of a Repository.
type Service struct {
	repo  Repository
	now   func() time.Time
	newID func() string
}

// NewService returns a Service backed by repo.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now, newID: uuid.NewString}
}

// Create adds a category after validating its name and parent.
func (s *Service) Create(ctx context.Context, in Input) (Category, error) {
	in, err := s.validate(ctx, "", in)
	if err != nil {
		return Category{}, err
	}
	now := s.now()
	c := Category{
		ID:               s.newID(),
		Name:             in.Name,
		Description:      in.Description,
		ImageURL:         in.ImageURL,
		ParentCategoryID: in.ParentCategoryID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return Category{}, err
	}
	return c, nil
}

// Update replaces the editable fields of id.
func (s *Service) Update(ctx context.Context, id string, in Input) (Category, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return Category{}, err
	}
	in, err = s.validate(ctx, id, in)
	if err != nil {
		return Category{}, err
	}
	c.Name = in.Name
	c.Description = in.Description
	c.ImageURL = in.ImageURL
	c.ParentCategoryID = in.ParentCategoryID
	c.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, c); err != nil {
		return Category{}, err
	}
	return c, nil
}

// Delete removes id unless it still has subcategories.
func (s *Service) Delete(ctx context.Context, id string) error {
	list, err := s.repo.List(ctx)
	if err != nil {
		return err
	}
	if len(Children(list, id)) > 0 {
		return ErrHasSubcategories
	}
	return s.repo.Delete(ctx, id)
}

// Get returns a category by ID.
func (s *Service) Get(ctx context.Context, id string) (Category, error) {
	return s.repo.Get(ctx, id)
}

// List returns the categories matching search, or all when search is empty.
func (s *Service) List(ctx context.Context, search string) ([]Category, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if search == "" {
		return list, nil
	}
	return listing.Filter(list, func(c Category) bool { return c.Matches(search) }), nil
}

// Hierarchy returns the category forest.
func (s *Service) Hierarchy(ctx context.Context) ([]Category, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return Hierarchy(list)
}

func (s *Service) validate(ctx context.Context, id string, in Input) (Input, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.ParentCategoryID = NormalizeParent(in.ParentCategoryID)
	if in.Name == "" {
		return in, ErrNameRequired
	}
	if in.ParentCategoryID == "" {
		return in, nil
	}
	list, err := s.repo.List(ctx)
	if err != nil {
		return in, err
	}
	return in, CheckParent(list, id, in.ParentCategoryID)
}
