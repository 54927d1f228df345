package catalog

import (
	"fmt"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/bwmarrin/snowflake"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"github.com/vitrinedecor/catalogo/internal/domain"
	"github.com/vitrinedecor/catalogo/internal/store"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrValidation rejects bad input before any mutation happens.
var ErrValidation = errors.New("validation failed")

// Mutation events published on the application bus.
const (
	EventProductSaved    = "catalog.product.saved"
	EventProductDeleted  = "catalog.product.deleted"
	EventCategorySaved   = "catalog.category.saved"
	EventCategoryDeleted = "catalog.category.deleted"
	EventImported        = "catalog.imported"
)

// Service implements the admin mutation flow on top of the record store:
// upserts with timestamp carry-over, the category delete cascade, and the
// destructive bulk import. It enforces what the store deliberately does not.
type Service struct {
	records *store.Store
	ids     *snowflake.Node
	bus     EventBus.Bus
	tmpl    string
	nowFn   func() time.Time
}

func NewService(records *store.Store, ids *snowflake.Node, bus EventBus.Bus, defaultTemplate string) *Service {
	return &Service{
		records: records,
		ids:     ids,
		bus:     bus,
		tmpl:    defaultTemplate,
		nowFn:   time.Now,
	}
}

func (s *Service) newID() string {
	return s.ids.Generate().Base36()
}

func (s *Service) now() string {
	return domain.Timestamp(s.nowFn())
}

func (s *Service) publish(topic string, args ...interface{}) {
	if s.bus != nil {
		s.bus.Publish(topic, args...)
	}
}

// Products reads the full product collection.
func (s *Service) Products() ([]domain.Product, error) {
	raws, err := s.records.GetAll(domain.CollectionProducts)
	if err != nil {
		return nil, err
	}
	list := make([]domain.Product, 0, len(raws))
	for _, raw := range raws {
		var p domain.Product
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, errors.Wrap(err, "decode product record")
		}
		list = append(list, p)
	}
	return list, nil
}

func (s *Service) GetProduct(id string) (domain.Product, error) {
	var p domain.Product
	err := s.records.Get(domain.CollectionProducts, id, &p)
	return p, err
}

// UpsertProduct inserts or overwrites a product. On edit, available and
// createdAt are carried over from the stored record; updatedAt is always
// refreshed. A missing id means create, with a freshly generated opaque id.
func (s *Service) UpsertProduct(p domain.Product) (domain.Product, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.Label = strings.TrimSpace(p.Label)
	if p.Name == "" {
		return p, errors.Wrap(ErrValidation, "product name is required")
	}
	if p.Price < 0 {
		p.Price = 0
	}
	if strings.TrimSpace(p.WhatsappTemplate) == "" {
		p.WhatsappTemplate = s.tmpl
	}

	now := s.now()
	if p.ID == "" {
		p.ID = s.newID()
		p.Available = true
		p.CreatedAt = now
	} else {
		var prev domain.Product
		switch err := s.records.Get(domain.CollectionProducts, p.ID, &prev); {
		case err == nil:
			p.Available = prev.Available
			p.CreatedAt = prev.CreatedAt
		case errors.Is(err, store.ErrNotFound):
			p.Available = true
			p.CreatedAt = now
		default:
			return p, err
		}
	}
	p.UpdatedAt = now

	if err := s.records.Put(domain.CollectionProducts, p.ID, p); err != nil {
		return p, err
	}
	s.publish(EventProductSaved, p.ID)
	return p, nil
}

// ToggleAvailability flips the available flag and refreshes updatedAt.
func (s *Service) ToggleAvailability(id string) (domain.Product, error) {
	var p domain.Product
	if err := s.records.Get(domain.CollectionProducts, id, &p); err != nil {
		return p, err
	}
	p.Available = !p.Available
	p.UpdatedAt = s.now()
	if err := s.records.Put(domain.CollectionProducts, id, p); err != nil {
		return p, err
	}
	s.publish(EventProductSaved, id)
	return p, nil
}

func (s *Service) DeleteProduct(id string) error {
	if err := s.records.Delete(domain.CollectionProducts, id); err != nil {
		return err
	}
	s.publish(EventProductDeleted, id)
	return nil
}

// Categories reads the full category collection.
func (s *Service) Categories() ([]domain.Category, error) {
	raws, err := s.records.GetAll(domain.CollectionCategories)
	if err != nil {
		return nil, err
	}
	list := make([]domain.Category, 0, len(raws))
	for _, raw := range raws {
		var c domain.Category
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, errors.Wrap(err, "decode category record")
		}
		list = append(list, c)
	}
	return list, nil
}

func (s *Service) CreateCategory(name string) (domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Category{}, errors.Wrap(ErrValidation, "category name is required")
	}
	c := domain.Category{ID: s.newID(), Name: name}
	if err := s.records.Put(domain.CollectionCategories, c.ID, c); err != nil {
		return c, err
	}
	s.publish(EventCategorySaved, c.ID)
	return c, nil
}

// DeleteCategory removes the category record and then clears the class field
// of every product that referenced it by name, refreshing their updatedAt.
// The two phases run as independent writes across two collections: if the
// process dies midway the cascade is partially applied, and the caller is
// expected to re-read state rather than rely on atomicity.
func (s *Service) DeleteCategory(id string) (name string, cleared int, err error) {
	var c domain.Category
	if err = s.records.Get(domain.CollectionCategories, id, &c); err != nil {
		return "", 0, err
	}
	if err = s.records.Delete(domain.CollectionCategories, id); err != nil {
		return "", 0, err
	}

	products, err := s.Products()
	if err != nil {
		return c.Name, 0, err
	}
	now := s.now()
	for _, p := range products {
		if p.Class != c.Name {
			continue
		}
		p.Class = ""
		p.UpdatedAt = now
		if err = s.records.Put(domain.CollectionProducts, p.ID, p); err != nil {
			return c.Name, cleared, err
		}
		cleared++
	}
	s.publish(EventCategoryDeleted, c.Name, cleared)
	return c.Name, cleared, nil
}

// Export renders the whole product collection as an indented JSON array, the
// de-facto interchange format of the catalog.
func (s *Service) Export() ([]byte, error) {
	products, err := s.Products()
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(products, "", "  ")
}

// Import replaces the entire product collection with the payload, which must
// be a JSON array. The payload is validated before anything is cleared, so a
// malformed file leaves existing data untouched. Records missing an id or
// createdAt get fresh ones; updatedAt is always set to now. Field values from
// foreign exports are normalized leniently (a junk price reads as 0).
func (s *Service) Import(payload []byte) (int, error) {
	var incoming []map[string]interface{}
	if err := json.Unmarshal(payload, &incoming); err != nil {
		return 0, errors.Wrap(ErrValidation, "import payload must be a JSON array of products")
	}

	if err := s.records.Clear(domain.CollectionProducts); err != nil {
		return 0, err
	}
	now := s.now()
	for _, rec := range incoming {
		p := productFromMap(rec)
		if p.ID == "" {
			p.ID = s.newID()
		}
		if p.CreatedAt == "" {
			p.CreatedAt = now
		}
		p.UpdatedAt = now
		if err := s.records.Put(domain.CollectionProducts, p.ID, p); err != nil {
			return 0, err
		}
	}
	s.publish(EventImported, len(incoming))
	return len(incoming), nil
}

// productFromMap normalizes a loosely-typed imported record.
func productFromMap(m map[string]interface{}) domain.Product {
	p := domain.Product{
		ID:               cast.ToString(m["id"]),
		Label:            cast.ToString(m["label"]),
		Name:             cast.ToString(m["name"]),
		Description:      cast.ToString(m["description"]),
		Price:            cast.ToFloat64(m["price"]),
		WhatsappTemplate: cast.ToString(m["whatsapp_template"]),
		ImageURL:         cast.ToString(m["image_url"]),
		Tags:             cast.ToStringSlice(m["tags"]),
		Class:            cast.ToString(m["class"]),
		Colors:           cast.ToStringSlice(m["colors"]),
		CreatedAt:        cast.ToString(m["createdAt"]),
		UpdatedAt:        cast.ToString(m["updatedAt"]),
		Available:        true,
	}
	if v, ok := m["available"]; ok {
		p.Available = cast.ToBool(v)
	}
	if p.Price < 0 {
		p.Price = 0
	}
	return p
}

// NextLabel returns the lowest zero-padded four digit label not yet taken.
// Label uniqueness is a seeding convention, not a store constraint: Upsert
// accepts any label and duplicates are the operator's problem.
func NextLabel(products []domain.Product) string {
	used := make(map[string]bool, len(products))
	for _, p := range products {
		used[p.Label] = true
	}
	for n := 1; ; n++ {
		label := fmt.Sprintf("%04d", n)
		if !used[label] {
			return label
		}
	}
}

// SeedIfEmpty populates an empty catalog with one sample product per image
// file, allocating sequential labels. A non-empty catalog is left alone.
func (s *Service) SeedIfEmpty(imageFiles []string) (int, error) {
	products, err := s.Products()
	if err != nil {
		return 0, err
	}
	if len(products) > 0 {
		return 0, nil
	}

	seeded := 0
	for i, fname := range imageFiles {
		label := NextLabel(products)
		now := s.now()
		p := domain.Product{
			ID:               s.newID(),
			Label:            label,
			Name:             fmt.Sprintf("Cabeceira %d", seeded+1),
			Description:      "Cabeceira de alta qualidade, perfeita para complementar seu mobiliário.",
			Price:            399 + float64(i)*50,
			WhatsappTemplate: s.tmpl,
			ImageURL:         "img/produtos/" + fname,
			Tags:             []string{"cabeceira", "móvel", "quarto"},
			Available:        true,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if err := s.records.Put(domain.CollectionProducts, p.ID, p); err != nil {
			return seeded, err
		}
		products = append(products, p)
		seeded++
	}
	if seeded > 0 {
		zap.S().Infof("catalog seeded with %d sample products", seeded)
	}
	return seeded, nil
}

// RenameCameraRollProducts repairs records seeded before labels existed: any
// product whose image kept a camera-roll filename ("WhatsApp Image ...") is
// renamed to "Cabeceira <n>" derived from its label, refreshing updatedAt.
// Products without a numeric label are left alone.
func (s *Service) RenameCameraRollProducts() (int, error) {
	products, err := s.Products()
	if err != nil {
		return 0, err
	}
	changed := 0
	for _, p := range products {
		fname := path.Base(p.ImageURL)
		if !strings.HasPrefix(fname, "WhatsApp Image") {
			continue
		}
		num, err := strconv.Atoi(strings.TrimLeft(p.Label, "0"))
		if err != nil || num == 0 {
			continue
		}
		desired := fmt.Sprintf("Cabeceira %d", num)
		if p.Name == desired {
			continue
		}
		p.Name = desired
		p.UpdatedAt = s.now()
		if err := s.records.Put(domain.CollectionProducts, p.ID, p); err != nil {
			return changed, err
		}
		changed++
	}
	return changed, nil
}
