package newsletter

import (
	"strings"

	"github.com/solsticehq/solstice-api/internal/models"
	"github.com/solsticehq/solstice-api/internal/pkg/pagination"
	"github.com/solsticehq/solstice-api/internal/pkg/response"
	"gorm.io/gorm"
)

// sortColumns maps the public sort field names onto real columns. Anything
// else falls back to the subscription timestamp.
var sortColumns = map[string]string{
	"subscribedAt": "subscribed_at",
	"email":        "email",
}

// QueryService serves the administrative read side of the ledger: paged
// search and aggregate stats.
type QueryService struct {
	db    *gorm.DB
	store *Store
}

func NewQueryService(db *gorm.DB) *QueryService {
	return &QueryService{db: db, store: NewStore(db)}
}

// Search returns a page of subscribers. The query string matches as a
// case-insensitive substring of the email; status narrows to one lifecycle
// state unless it is "all".
func (s *QueryService) Search(query string, opts SearchOptions) ([]models.SubscriberModel, response.Pagination, error) {
	q := pagination.Clamp(opts.Page, opts.Size)

	status := opts.Status
	if status == "" {
		status = string(models.SubscriberActive)
	}
	column, ok := sortColumns[opts.SortField]
	if !ok {
		column = "subscribed_at"
	}
	order := "DESC"
	if strings.EqualFold(opts.SortOrder, "asc") {
		order = "ASC"
	}

	tx := s.db.Model(&models.SubscriberModel{})
	if status != "all" {
		tx = tx.Where("status = ?", status)
	}
	if needle := strings.ToLower(strings.TrimSpace(query)); needle != "" {
		// Emails are stored lowercased, so lowering the needle is enough.
		tx = tx.Where("email LIKE ?", "%"+needle+"%")
	}
	tx = tx.Order(column + " " + order)

	var subs []models.SubscriberModel
	pg, err := pagination.Paginate(tx, q, &subs)
	if err != nil {
		return nil, response.Pagination{}, err
	}
	return subs, pg, nil
}

// GetStats breaks the ledger down by lifecycle state. The two counts run
// independently, so the split can lag a concurrent write by one row; the
// total is their sum and stays internally consistent.
func (s *QueryService) GetStats() (*Stats, error) {
	active, err := s.store.CountByStatus(models.SubscriberActive)
	if err != nil {
		return nil, err
	}
	unsubscribed, err := s.store.CountByStatus(models.SubscriberUnsubscribed)
	if err != nil {
		return nil, err
	}
	return &Stats{
		Total:        active + unsubscribed,
		Active:       active,
		Unsubscribed: unsubscribed,
	}, nil
}
