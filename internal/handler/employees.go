package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"CompanyAPI/internal/model"
	"CompanyAPI/internal/repository"
	"CompanyAPI/internal/shape"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/google/uuid"
)

const mediaJSONPatch = "application/json-patch+json"

func employeeLocation(e model.Employee) string {
	return "/api/companies/" + e.CompanyID.String() + "/employees/" + e.ID.String()
}

// companyScope parses companyId and checks that the company exists. It writes
// the error response itself and returns false when the request must stop.
func companyScope(w http.ResponseWriter, r *http.Request, repo repository.CompanyRepository, endpoint string) (uuid.UUID, bool) {
	companyID, ok := pathID(r, "companyId")
	if !ok {
		statusProblem(w, r, http.StatusBadRequest, "companyId is not a valid id")
		return uuid.Nil, false
	}
	exists, err := repo.CompanyExists(r.Context(), companyID)
	if err != nil {
		fail(w, r, endpoint, err)
		return uuid.Nil, false
	}
	if !exists {
		statusProblem(w, r, http.StatusNotFound, "")
		return uuid.Nil, false
	}
	return companyID, true
}

// ListEmployees serves GET /api/companies/{companyId}/employees.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	orderBy := orderByOrDefault(q.Get("orderBy"), employeeOrderDefault)
	fields := q.Get("fields")

	valid, err := h.validOrderBy(model.EmployeeDtoName, model.EmployeeEntity, orderBy)
	if err != nil {
		fail(w, r, "list_employees", err)
		return
	}
	if !valid {
		statusProblem(w, r, http.StatusBadRequest, "orderBy references an unknown field")
		return
	}
	if !shape.HasAllProperties(model.EmployeeDtoShape, fields) {
		statusProblem(w, r, http.StatusBadRequest, "fields references an unknown property")
		return
	}
	var gender *model.Gender
	if raw := strings.TrimSpace(q.Get("gender")); raw != "" {
		g, err := model.ParseGender(raw)
		if err != nil {
			statusProblem(w, r, http.StatusBadRequest, err.Error())
			return
		}
		gender = &g
	}
	pageNumber, pageSize, ok := h.pageParams(r)
	if !ok {
		statusProblem(w, r, http.StatusBadRequest, "pageNumber and pageSize must be integers")
		return
	}

	repo := h.newRepo()
	companyID, ok := companyScope(w, r, repo, "list_employees")
	if !ok {
		return
	}
	page, err := repo.GetEmployees(r.Context(), companyID, repository.EmployeeParameters{
		Gender:     gender,
		Q:          q.Get("q"),
		PageNumber: pageNumber,
		PageSize:   pageSize,
		OrderBy:    orderBy,
		Fields:     fields,
	})
	if err != nil {
		fail(w, r, "list_employees", err)
		return
	}
	shaped, err := shape.Data(model.ToEmployeeDtos(page.Items), fields, model.EmployeeDtoShape)
	if err != nil {
		fail(w, r, "list_employees", err)
		return
	}
	setPagination(w, page.Metadata())
	writeJSON(w, http.StatusOK, shaped)
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	fields := r.URL.Query().Get("fields")
	if !shape.HasAllProperties(model.EmployeeDtoShape, fields) {
		statusProblem(w, r, http.StatusBadRequest, "fields references an unknown property")
		return
	}
	repo := h.newRepo()
	companyID, ok := companyScope(w, r, repo, "get_employee")
	if !ok {
		return
	}
	employeeID, ok := pathID(r, "employeeId")
	if !ok {
		statusProblem(w, r, http.StatusBadRequest, "employeeId is not a valid id")
		return
	}
	employee, err := repo.GetEmployee(r.Context(), companyID, employeeID)
	if err != nil {
		fail(w, r, "get_employee", err)
		return
	}
	rec, err := shape.One(model.ToEmployeeDto(*employee), fields, model.EmployeeDtoShape)
	if err != nil {
		fail(w, r, "get_employee", err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	if contentType(r) != mediaJSON {
		statusProblem(w, r, http.StatusUnsupportedMediaType, "")
		return
	}
	var dto model.EmployeeAddDto
	if err := decodeBody(w, r, &dto); err != nil {
		statusProblem(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := model.Validate(dto); err != nil {
		fail(w, r, "create_employee", err)
		return
	}

	repo := h.newRepo()
	companyID, ok := companyScope(w, r, repo, "create_employee")
	if !ok {
		return
	}
	employee := model.EmployeeFromAddDto(dto)
	h.insertEmployee(w, r, repo, companyID, &employee, "create_employee")
}

// insertEmployee stages, saves and answers 201 with the new employee.
func (h *Handler) insertEmployee(w http.ResponseWriter, r *http.Request, repo repository.CompanyRepository,
	companyID uuid.UUID, employee *model.Employee, endpoint string) {
	if err := repo.AddEmployee(companyID, employee); err != nil {
		fail(w, r, endpoint, err)
		return
	}
	if !save(w, r, repo, endpoint) {
		return
	}
	w.Header().Set("Location", employeeLocation(*employee))
	writeJSON(w, http.StatusCreated, model.ToEmployeeDto(*employee))
}

// updateEmployee stages, saves and answers 204.
func (h *Handler) updateEmployee(w http.ResponseWriter, r *http.Request, repo repository.CompanyRepository,
	employee *model.Employee, endpoint string) {
	if err := repo.UpdateEmployee(employee); err != nil {
		fail(w, r, endpoint, err)
		return
	}
	if !save(w, r, repo, endpoint) {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PutEmployee replaces the employee, creating it under the given id when it
// does not exist yet.
func (h *Handler) PutEmployee(w http.ResponseWriter, r *http.Request) {
	if contentType(r) != mediaJSON {
		statusProblem(w, r, http.StatusUnsupportedMediaType, "")
		return
	}
	var dto model.EmployeeUpdateDto
	if err := decodeBody(w, r, &dto); err != nil {
		statusProblem(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := model.Validate(dto); err != nil {
		fail(w, r, "put_employee", err)
		return
	}

	repo := h.newRepo()
	companyID, employeeID, existing, ok := h.lookupForUpsert(w, r, repo, "put_employee")
	if !ok {
		return
	}
	if existing == nil {
		employee := model.EmployeeFromAddDto(model.EmployeeAddDto(dto))
		employee.ID = employeeID
		h.insertEmployee(w, r, repo, companyID, &employee, "put_employee")
		return
	}
	model.ApplyEmployeeUpdate(existing, dto)
	h.updateEmployee(w, r, repo, existing, "put_employee")
}

// PatchEmployee applies an RFC 6902 document to the employee's update
// representation. A missing employee is patched from an empty one and created.
func (h *Handler) PatchEmployee(w http.ResponseWriter, r *http.Request) {
	if contentType(r) != mediaJSONPatch {
		statusProblem(w, r, http.StatusUnsupportedMediaType, "")
		return
	}
	body, err := readBody(w, r)
	if err != nil {
		statusProblem(w, r, http.StatusBadRequest, err.Error())
		return
	}
	patch, err := jsonpatch.DecodePatch(body)
	if err != nil {
		statusProblem(w, r, http.StatusBadRequest, "invalid JSON patch: "+err.Error())
		return
	}

	repo := h.newRepo()
	companyID, employeeID, existing, ok := h.lookupForUpsert(w, r, repo, "patch_employee")
	if !ok {
		return
	}
	var base model.EmployeeUpdateDto
	if existing != nil {
		base = model.ToEmployeeUpdateDto(*existing)
	}
	dto, err := applyPatch(patch, base)
	if err != nil {
		fail(w, r, "patch_employee", err)
		return
	}
	if err := model.Validate(dto); err != nil {
		fail(w, r, "patch_employee", err)
		return
	}

	if existing == nil {
		employee := model.EmployeeFromAddDto(model.EmployeeAddDto(dto))
		employee.ID = employeeID
		h.insertEmployee(w, r, repo, companyID, &employee, "patch_employee")
		return
	}
	model.ApplyEmployeeUpdate(existing, dto)
	h.updateEmployee(w, r, repo, existing, "patch_employee")
}

// applyPatch runs patch against the JSON form of base. Failures to apply or
// to read the result back are reported like validation errors on "patch".
func applyPatch(patch jsonpatch.Patch, base model.EmployeeUpdateDto) (model.EmployeeUpdateDto, error) {
	doc, err := json.Marshal(base)
	if err != nil {
		return base, err
	}
	patched, err := patch.Apply(doc)
	if err != nil {
		return base, patchError(err)
	}
	var out model.EmployeeUpdateDto
	if err := json.Unmarshal(patched, &out); err != nil {
		return base, patchError(err)
	}
	return out, nil
}

func patchError(err error) error {
	return &model.ValidationError{Errors: map[string][]string{"patch": {err.Error()}}}
}

// lookupForUpsert resolves the company and employee ids of a PUT or PATCH.
// existing is nil when the employee does not exist yet.
func (h *Handler) lookupForUpsert(w http.ResponseWriter, r *http.Request, repo repository.CompanyRepository,
	endpoint string) (companyID, employeeID uuid.UUID, existing *model.Employee, ok bool) {
	companyID, ok = companyScope(w, r, repo, endpoint)
	if !ok {
		return
	}
	employeeID, ok = pathID(r, "employeeId")
	if !ok || employeeID == uuid.Nil {
		statusProblem(w, r, http.StatusBadRequest, "employeeId is not a valid id")
		return companyID, employeeID, nil, false
	}
	existing, err := repo.GetEmployee(r.Context(), companyID, employeeID)
	if errors.Is(err, repository.ErrNotFound) {
		return companyID, employeeID, nil, true
	}
	if err != nil {
		fail(w, r, endpoint, err)
		return companyID, employeeID, nil, false
	}
	return companyID, employeeID, existing, true
}

func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	repo := h.newRepo()
	companyID, ok := companyScope(w, r, repo, "delete_employee")
	if !ok {
		return
	}
	employeeID, ok := pathID(r, "employeeId")
	if !ok {
		statusProblem(w, r, http.StatusBadRequest, "employeeId is not a valid id")
		return
	}
	employee, err := repo.GetEmployee(r.Context(), companyID, employeeID)
	if err != nil {
		fail(w, r, "delete_employee", err)
		return
	}
	if err := repo.DeleteEmployee(employee); err != nil {
		fail(w, r, "delete_employee", err)
		return
	}
	if !save(w, r, repo, "delete_employee") {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
