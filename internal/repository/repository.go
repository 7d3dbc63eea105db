package repository

import (
	"context"
	"fmt"
	"strings"

	"CompanyAPI/internal/apperror"
	"CompanyAPI/internal/events"
	"CompanyAPI/internal/logger"
	"CompanyAPI/internal/mapping"
	"CompanyAPI/internal/model"
	"CompanyAPI/internal/query"

	"github.com/google/uuid"
)

type Repository struct {
	store    Store
	mappings *mapping.Registry
	cache    CompanyCache
	bus      *events.Bus
	pending  []Change
}

type Option func(*Repository)

// WithCache serves GetCompany through c.
func WithCache(c CompanyCache) Option {
	return func(r *Repository) { r.cache = c }
}

// WithEvents publishes saved changes on bus.
func WithEvents(bus *events.Bus) Option {
	return func(r *Repository) { r.bus = bus }
}

func New(store Store, mappings *mapping.Registry, opts ...Option) *Repository {
	r := &Repository{store: store, mappings: mappings}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ CompanyRepository = (*Repository)(nil)

func (r *Repository) GetCompanies(ctx context.Context, p CompanyParameters) (*query.Page[model.Company], error) {
	src := r.store.Companies()
	if name := strings.TrimSpace(p.CompanyName); name != "" {
		src = src.Where(query.Eq("Name", name))
	}
	if q := strings.TrimSpace(p.QueryString); q != "" {
		src = src.Where(query.Contains(q, "Name", "Introduction"))
	}

	set, err := r.mappings.Lookup(model.CompanyDtoName, model.CompanyEntity)
	if err != nil {
		return nil, err
	}
	src, err = query.ApplySort(src, p.OrderBy, set)
	if err != nil {
		return nil, err
	}
	return query.Paginate(ctx, src.OrderBy("Id", false), p.PageNumber, p.PageSize)
}

// GetCompaniesByIDs returns the companies found among ids, ordered by name.
// Missing ids are skipped; callers compare lengths.
func (r *Repository) GetCompaniesByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Company, error) {
	if ids == nil {
		return nil, apperror.InvalidArgument("ids")
	}
	if len(ids) == 0 {
		return []model.Company{}, nil
	}
	values := make([]any, len(ids))
	for i, id := range ids {
		values[i] = id
	}
	companies, err := r.store.Companies().
		Where(query.In("Id", values)).
		OrderBy("Name", false).
		Fetch(ctx, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to get companies by ids: %w", err)
	}
	return companies, nil
}

func (r *Repository) GetCompany(ctx context.Context, id uuid.UUID) (*model.Company, error) {
	if id == uuid.Nil {
		return nil, apperror.InvalidArgument("companyId")
	}
	if r.cache != nil {
		if c, ok := r.cache.Get(ctx, id); ok {
			return c, nil
		}
	}
	found, err := r.store.Companies().Where(query.Eq("Id", id)).Fetch(ctx, 0, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	if len(found) == 0 {
		return nil, ErrNotFound
	}
	c := found[0]
	if r.cache != nil {
		r.cache.Set(ctx, &c)
	}
	return &c, nil
}

func (r *Repository) CompanyExists(ctx context.Context, id uuid.UUID) (bool, error) {
	if id == uuid.Nil {
		return false, apperror.InvalidArgument("companyId")
	}
	n, err := r.store.Companies().Where(query.Eq("Id", id)).Count(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check company: %w", err)
	}
	return n > 0, nil
}

// AddCompany stages a new company. It and its employees get fresh ids.
func (r *Repository) AddCompany(company *model.Company) error {
	if company == nil {
		return apperror.InvalidArgument("company")
	}
	company.ID = uuid.New()
	for i := range company.Employees {
		company.Employees[i].ID = uuid.New()
		company.Employees[i].CompanyID = company.ID
	}
	r.stage(Change{Kind: Insert, Company: company})
	return nil
}

func (r *Repository) UpdateCompany(company *model.Company) error {
	if company == nil {
		return apperror.InvalidArgument("company")
	}
	r.stage(Change{Kind: Update, Company: company})
	return nil
}

func (r *Repository) DeleteCompany(company *model.Company) error {
	if company == nil {
		return apperror.InvalidArgument("company")
	}
	r.stage(Change{Kind: Delete, Company: company})
	return nil
}

func (r *Repository) GetEmployees(ctx context.Context, companyID uuid.UUID, p EmployeeParameters) (*query.Page[model.Employee], error) {
	if companyID == uuid.Nil {
		return nil, apperror.InvalidArgument("companyId")
	}
	src := r.store.Employees().Where(query.Eq("CompanyId", companyID))
	if p.Gender != nil {
		src = src.Where(query.Eq("Gender", int(*p.Gender)))
	}
	if q := strings.TrimSpace(p.Q); q != "" {
		src = src.Where(query.Contains(q, "EmployeeNo", "FirstName", "LastName"))
	}

	set, err := r.mappings.Lookup(model.EmployeeDtoName, model.EmployeeEntity)
	if err != nil {
		return nil, err
	}
	src, err = query.ApplySort(src, p.OrderBy, set)
	if err != nil {
		return nil, err
	}
	return query.Paginate(ctx, src.OrderBy("Id", false), p.PageNumber, p.PageSize)
}

func (r *Repository) GetEmployee(ctx context.Context, companyID, employeeID uuid.UUID) (*model.Employee, error) {
	if companyID == uuid.Nil {
		return nil, apperror.InvalidArgument("companyId")
	}
	if employeeID == uuid.Nil {
		return nil, apperror.InvalidArgument("employeeId")
	}
	found, err := r.store.Employees().
		Where(query.Eq("CompanyId", companyID)).
		Where(query.Eq("Id", employeeID)).
		Fetch(ctx, 0, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	if len(found) == 0 {
		return nil, ErrNotFound
	}
	return &found[0], nil
}

// AddEmployee stages employee under companyID. A preset id is kept so PUT
// can create at a client-chosen address.
func (r *Repository) AddEmployee(companyID uuid.UUID, employee *model.Employee) error {
	if companyID == uuid.Nil {
		return apperror.InvalidArgument("companyId")
	}
	if employee == nil {
		return apperror.InvalidArgument("employee")
	}
	employee.CompanyID = companyID
	if employee.ID == uuid.Nil {
		employee.ID = uuid.New()
	}
	r.stage(Change{Kind: Insert, Employee: employee})
	return nil
}

func (r *Repository) UpdateEmployee(employee *model.Employee) error {
	if employee == nil {
		return apperror.InvalidArgument("employee")
	}
	r.stage(Change{Kind: Update, Employee: employee})
	return nil
}

func (r *Repository) DeleteEmployee(employee *model.Employee) error {
	if employee == nil {
		return apperror.InvalidArgument("employee")
	}
	r.stage(Change{Kind: Delete, Employee: employee})
	return nil
}

// stage snapshots the entity so later edits by the caller do not leak into
// the pending write.
func (r *Repository) stage(c Change) {
	if c.Company != nil {
		company := *c.Company
		company.Employees = append([]model.Employee(nil), c.Company.Employees...)
		c.Company = &company
	}
	if c.Employee != nil {
		employee := *c.Employee
		c.Employee = &employee
	}
	r.pending = append(r.pending, c)
}

// Save applies every staged change in one transaction and reports success.
// On failure nothing is applied and the changes stay staged.
func (r *Repository) Save(ctx context.Context) (bool, error) {
	if len(r.pending) == 0 {
		return true, nil
	}
	changes := r.pending
	if err := r.store.Apply(ctx, changes); err != nil {
		logger.Error("save_failed", map[string]any{"changes": len(changes), "error": err.Error()})
		return false, fmt.Errorf("failed to save changes: %w", err)
	}
	r.pending = nil
	logger.Debug("changes_saved", map[string]any{"changes": len(changes)})
	for _, c := range changes {
		r.publish(ctx, c)
	}
	return true, nil
}

func (r *Repository) publish(ctx context.Context, c Change) {
	if r.bus == nil {
		return
	}
	action := events.ActionCreated
	switch c.Kind {
	case Update:
		action = events.ActionUpdated
	case Delete:
		action = events.ActionDeleted
	}
	if c.Company != nil {
		r.bus.Publish(ctx, events.CompanyChanged, events.Event{Action: action, CompanyID: c.Company.ID})
		return
	}
	r.bus.Publish(ctx, events.EmployeeChanged, events.Event{
		Action:     action,
		CompanyID:  c.Employee.CompanyID,
		EmployeeID: c.Employee.ID,
	})
}

// Pending reports how many changes wait for Save.
func (r *Repository) Pending() int { return len(r.pending) }
