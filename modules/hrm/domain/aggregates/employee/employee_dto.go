package employee

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/iota-uz/go-i18n/v2/i18n"

	"github.com/cams7/cadferias/modules/hrm/domain/entities/staff"
	"github.com/cams7/cadferias/modules/hrm/domain/entities/user"
	"github.com/cams7/cadferias/modules/hrm/domain/value_objects/address"
	"github.com/cams7/cadferias/pkg/constants"
	"github.com/cams7/cadferias/pkg/intl"
	"github.com/cams7/cadferias/pkg/shared"
)

func init() {
	for tag, fn := range map[string]validator.Func{
		"pastdate":      pastDate,
		"notfuturedate": notFutureDate,
		"phone":         phoneNumber,
		"state":         stateAcronym,
	} {
		if err := constants.Validate.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
}

var now = time.Now

func pastDate(fl validator.FieldLevel) bool {
	d, err := shared.ParseDate(fl.Field().String())
	return err == nil && !d.IsZero() && d.Before(now())
}

func notFutureDate(fl validator.FieldLevel) bool {
	d, err := shared.ParseDate(fl.Field().String())
	return err == nil && !d.IsZero() && !d.After(now())
}

func phoneNumber(fl validator.FieldLevel) bool {
	n := len(Digits(fl.Field().String()))
	return n == 10 || n == 11
}

func stateAcronym(fl validator.FieldLevel) bool {
	return address.IsState(fl.Field().String())
}

// Digits drops every non digit, e.g. "(31) 3645-7856" -> "3136457856".
func Digits(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

type AddressDTO struct {
	Street       string `form:"street" json:"street" validate:"required,min=3,max=50"`
	HouseNumber  int    `form:"houseNumber" json:"houseNumber" validate:"required,gt=0"`
	Neighborhood string `form:"neighborhood" json:"neighborhood" validate:"required,min=3,max=50"`
	City         string `form:"city" json:"city" validate:"required,min=3,max=30"`
	State        string `form:"state" json:"state" validate:"required,state"`
}

type UserDTO struct {
	Email string `form:"email" json:"email" validate:"required,email"`
}

type StaffDTO struct {
	EntityID int64  `form:"entityId" json:"entityId" validate:"required,gt=0"`
	Name     string `form:"name" json:"name,omitempty"`
}

// FormDTO is the editable draft of an employee. Dates travel as dd/MM/yyyy.
type FormDTO struct {
	HiringDate           string     `form:"hiringDate" json:"hiringDate" validate:"required,notfuturedate"`
	Photo                string     `form:"photo" json:"photo,omitempty"`
	EmployeeRegistration string     `form:"employeeRegistration" json:"employeeRegistration,omitempty"`
	Name                 string     `form:"name" json:"name" validate:"required,min=3,max=50"`
	BirthDate            string     `form:"birthDate" json:"birthDate" validate:"required,pastdate"`
	PhoneNumber          string     `form:"phoneNumber" json:"phoneNumber" validate:"required,phone"`
	Address              AddressDTO `form:"address" json:"address"`
	User                 UserDTO    `form:"user" json:"user"`
	Staff                StaffDTO   `form:"staff" json:"staff"`
}

// NewFormDTO fills the draft from the stored entity.
func NewFormDTO(e Employee) *FormDTO {
	d := &FormDTO{
		HiringDate:           e.HiringDate.String(),
		EmployeeRegistration: e.EmployeeRegistration,
		Name:                 e.Name,
		BirthDate:            e.BirthDate.String(),
		PhoneNumber:          e.PhoneNumber,
		Address: AddressDTO{
			Street:       e.Address.Street,
			HouseNumber:  e.Address.HouseNumber,
			Neighborhood: e.Address.Neighborhood,
			City:         e.Address.City,
			State:        e.Address.State,
		},
	}
	if p, ok := e.Photo(); ok {
		d.Photo = p.DataURL()
	}
	if e.User != nil {
		d.User.Email = e.User.Email
	}
	if e.Staff != nil {
		d.Staff = StaffDTO{EntityID: e.Staff.EntityID, Name: e.Staff.Name}
	}
	return d
}

// FieldKey maps a validator namespace such as "FormDTO.Address.Street" to
// the form key "address.street".
func FieldKey(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, p := range parts {
		if p == "EntityID" {
			parts[i] = "entityId"
			continue
		}
		parts[i] = strings.ToLower(p[:1]) + p[1:]
	}
	return strings.Join(parts, ".")
}

// Fields lists every validated form key.
var Fields = []string{
	"hiringDate", "name", "birthDate", "phoneNumber",
	"address.street", "address.houseNumber", "address.neighborhood", "address.city", "address.state",
	"user.email", "staff.entityId",
}

func (d *FormDTO) Ok(ctx context.Context) (map[string]string, bool) {
	errorMessages := map[string]string{}
	errs := constants.Validate.Struct(d)
	if errs == nil {
		return errorMessages, true
	}

	l, ok := intl.UseLocalizer(ctx)
	if !ok {
		panic(intl.ErrNoLocalizer)
	}

	for _, err := range errs.(validator.ValidationErrors) {
		ns := err.StructNamespace()
		if i := strings.Index(ns, "."); i >= 0 {
			ns = ns[i+1:]
		}
		translatedFieldName := l.MustLocalize(&i18n.LocalizeConfig{
			MessageID: fmt.Sprintf("Employees.Form.%s", ns),
		})
		errorMessages[FieldKey(err.StructNamespace())] = l.MustLocalize(&i18n.LocalizeConfig{
			MessageID: fmt.Sprintf("ValidationErrors.%s", err.Tag()),
			TemplateData: map[string]string{
				"Field": translatedFieldName,
				"Param": err.Param(),
			},
		})
	}

	return errorMessages, len(errorMessages) == 0
}

// ToEntity assembles the outgoing entity. Identity, registration owner and
// stored photo id come from stored. The photo is attached only when it
// changed and is an accepted data URL.
func (d *FormDTO) ToEntity(stored Employee, photoChanged bool) (Employee, error) {
	hiringDate, err := shared.ParseDate(d.HiringDate)
	if err != nil {
		return Employee{}, err
	}
	birthDate, err := shared.ParseDate(d.BirthDate)
	if err != nil {
		return Employee{}, err
	}

	e := Employee{
		EntityID:             stored.EntityID,
		User:                 &user.User{EntityID: stored.UserID(), Email: d.User.Email},
		HiringDate:           hiringDate,
		EmployeeRegistration: d.EmployeeRegistration,
		Name:                 strings.TrimSpace(d.Name),
		BirthDate:            birthDate,
		PhoneNumber:          Digits(d.PhoneNumber),
		Address: Address{
			Street:       strings.TrimSpace(d.Address.Street),
			HouseNumber:  d.Address.HouseNumber,
			Neighborhood: strings.TrimSpace(d.Address.Neighborhood),
			City:         d.Address.City,
			State:        strings.ToUpper(d.Address.State),
		},
	}
	if d.Staff.EntityID != 0 {
		e.Staff = &staff.Staff{EntityID: d.Staff.EntityID, Name: d.Staff.Name}
	}
	if photoChanged {
		if imageType, payload, ok := ParseDataURL(d.Photo); ok {
			p, _ := stored.Photo()
			p.ImageType = imageType
			p.Photo = payload
			e.Photos = []Photo{p}
		}
	}
	return e, nil
}
