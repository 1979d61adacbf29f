package employee

import (
	"context"
	"testing"
	"time"

	"github.com/iota-uz/go-i18n/v2/i18n"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/cams7/cadferias/modules/hrm/domain/entities/staff"
	"github.com/cams7/cadferias/modules/hrm/domain/entities/user"
	"github.com/cams7/cadferias/pkg/intl"
	"github.com/cams7/cadferias/pkg/shared"
)

func localizedCtx(t *testing.T) context.Context {
	t.Helper()
	bundle := i18n.NewBundle(language.English)
	require.NoError(t, bundle.AddMessages(language.English,
		&i18n.Message{ID: "ValidationErrors.required", Other: "{{.Field}} is required"},
		&i18n.Message{ID: "ValidationErrors.min", Other: "{{.Field}} needs at least {{.Param}} characters"},
		&i18n.Message{ID: "ValidationErrors.state", Other: "{{.Field}} is not a state"},
		&i18n.Message{ID: "ValidationErrors.phone", Other: "{{.Field}} is not a phone number"},
		&i18n.Message{ID: "ValidationErrors.pastdate", Other: "{{.Field}} must be in the past"},
		&i18n.Message{ID: "ValidationErrors.notfuturedate", Other: "{{.Field}} cannot be in the future"},
		&i18n.Message{ID: "ValidationErrors.gt", Other: "{{.Field}} must be greater than {{.Param}}"},
		&i18n.Message{ID: "ValidationErrors.email", Other: "{{.Field}} is not an e-mail"},
		&i18n.Message{ID: "Employees.Form.Name", Other: "Name"},
		&i18n.Message{ID: "Employees.Form.HiringDate", Other: "Hiring date"},
		&i18n.Message{ID: "Employees.Form.BirthDate", Other: "Birth date"},
		&i18n.Message{ID: "Employees.Form.PhoneNumber", Other: "Phone"},
		&i18n.Message{ID: "Employees.Form.Address.Street", Other: "Street"},
		&i18n.Message{ID: "Employees.Form.Address.HouseNumber", Other: "Number"},
		&i18n.Message{ID: "Employees.Form.Address.Neighborhood", Other: "Neighborhood"},
		&i18n.Message{ID: "Employees.Form.Address.City", Other: "City"},
		&i18n.Message{ID: "Employees.Form.Address.State", Other: "State"},
		&i18n.Message{ID: "Employees.Form.User.Email", Other: "E-mail"},
		&i18n.Message{ID: "Employees.Form.Staff.EntityID", Other: "Staff"},
	))
	return intl.WithLocalizer(context.Background(), i18n.NewLocalizer(bundle, "en"))
}

func validDTO() *FormDTO {
	return &FormDTO{
		HiringDate:  "01/01/2019",
		Name:        "José Silva Pinheiro",
		BirthDate:   "08/03/1984",
		PhoneNumber: "(31) 3645-7856",
		Address: AddressDTO{
			Street:       "Av. Francisco Sales",
			HouseNumber:  123,
			Neighborhood: "Floresta",
			City:         "Belo Horizonte",
			State:        "MG",
		},
		User:  UserDTO{Email: "jose@mail.com"},
		Staff: StaffDTO{EntityID: 4, Name: "Backend"},
	}
}

func TestParseDataURL(t *testing.T) {
	imageType, payload, ok := ParseDataURL("data:image/jpeg;base64,iVBORw0K/+==")
	require.True(t, ok)
	assert.Equal(t, ImageJPEG, imageType)
	assert.Equal(t, "iVBORw0K/+==", payload)

	for _, bad := range []string{
		"",
		"data:image/gif;base64,R0lGOD",
		"data:image/png;base64,",
		"data:image/png;base64,abc def",
		"https://example.com/photo.png",
		" data:image/png;base64,abc",
	} {
		_, _, ok := ParseDataURL(bad)
		assert.False(t, ok, bad)
	}
}

func TestFormDTO_Ok(t *testing.T) {
	ctx := localizedCtx(t)
	now = func() time.Time { return time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { now = time.Now })

	errs, ok := validDTO().Ok(ctx)
	assert.True(t, ok)
	assert.Empty(t, errs)

	d := validDTO()
	d.Name = "Jo"
	d.Address.State = "XX"
	d.PhoneNumber = "12345"
	d.BirthDate = "01/06/2024"
	d.HiringDate = "02/06/2024"
	d.Staff.EntityID = 0

	errs, ok = d.Ok(ctx)
	assert.False(t, ok)
	assert.Equal(t, "Name needs at least 3 characters", errs["name"])
	assert.Equal(t, "State is not a state", errs["address.state"])
	assert.Equal(t, "Phone is not a phone number", errs["phoneNumber"])
	assert.Equal(t, "Birth date must be in the past", errs["birthDate"])
	assert.Equal(t, "Hiring date cannot be in the future", errs["hiringDate"])
	assert.Equal(t, "Staff is required", errs["staff.entityId"])
	assert.NotContains(t, errs, "address.city")
}

func TestFormDTO_ToEntity(t *testing.T) {
	stored := Employee{
		EntityID: 10,
		User:     &user.User{EntityID: 77, Email: "old@mail.com"},
		Staff:    &staff.Staff{EntityID: 1},
		Photos:   []Photo{{EntityID: 5, ImageType: ImagePNG, Photo: "b2xk"}},
	}

	t.Run("formats fields and reattaches identities", func(t *testing.T) {
		e, err := validDTO().ToEntity(stored, false)
		require.NoError(t, err)

		assert.Equal(t, int64(10), e.EntityID)
		assert.Equal(t, int64(77), e.UserID())
		assert.Equal(t, "jose@mail.com", e.User.Email)
		assert.Equal(t, int64(4), e.StaffID())
		assert.Equal(t, "3136457856", e.PhoneNumber)
		assert.Equal(t, shared.NewDate(1984, time.March, 8), e.BirthDate)
		assert.Nil(t, e.Photos, "unchanged photo is omitted")
	})

	t.Run("changed valid photo reuses stored id", func(t *testing.T) {
		d := validDTO()
		d.Photo = "data:image/jpg;base64,bmV3"
		e, err := d.ToEntity(stored, true)
		require.NoError(t, err)
		assert.Equal(t, []Photo{{EntityID: 5, ImageType: ImageJPG, Photo: "bmV3"}}, e.Photos)
		assert.Equal(t, "b2xk", stored.Photos[0].Photo, "stored entity untouched")
	})

	t.Run("changed invalid photo is omitted", func(t *testing.T) {
		d := validDTO()
		d.Photo = "data:image/gif;base64,R0lGOD"
		e, err := d.ToEntity(stored, true)
		require.NoError(t, err)
		assert.Nil(t, e.Photos)
	})

	t.Run("no staff reference without id", func(t *testing.T) {
		d := validDTO()
		d.Staff = StaffDTO{}
		e, err := d.ToEntity(Employee{}, false)
		require.NoError(t, err)
		assert.Nil(t, e.Staff)
		assert.Zero(t, e.UserID())
	})
}

func TestNewFormDTO(t *testing.T) {
	e := Employee{
		Name:       "Ana",
		BirthDate:  shared.NewDate(1990, time.February, 3),
		HiringDate: shared.NewDate(2020, time.October, 1),
		Staff:      &staff.Staff{EntityID: 2, Name: "QA"},
		Photos:     []Photo{{ImageType: ImagePNG, Photo: "YQ=="}},
		Address:    Address{State: "SP", City: "São Paulo"},
	}
	d := NewFormDTO(e)
	assert.Equal(t, "03/02/1990", d.BirthDate)
	assert.Equal(t, "01/10/2020", d.HiringDate)
	assert.Equal(t, "data:image/png;base64,YQ==", d.Photo)
	assert.Equal(t, StaffDTO{EntityID: 2, Name: "QA"}, d.Staff)
	assert.Equal(t, "SP", d.Address.State)
}

func TestFilterBySearch(t *testing.T) {
	f := FilterBySearch("Maria")
	assert.Equal(t, "Maria", f.Name)
	assert.Equal(t, "Maria", f.EmployeeRegistration)
	assert.Equal(t, "Maria", f.Staff.Name)
	assert.Equal(t, "Maria", SearchByFilter(f))
	assert.Equal(t, Filter{}, FilterBySearch(""))
}

func TestFieldKey(t *testing.T) {
	assert.Equal(t, "address.street", FieldKey("FormDTO.Address.Street"))
	assert.Equal(t, "staff.entityId", FieldKey("FormDTO.Staff.EntityID"))
	assert.Equal(t, "hiringDate", FieldKey("FormDTO.HiringDate"))
}

func TestPreviewURL(t *testing.T) {
	assert.Equal(t, DefaultPhoto, PreviewURL(Employee{}))
	assert.Equal(t, "data:image/png;base64,YQ==", PreviewURL(Employee{Photos: []Photo{{ImageType: ImagePNG, Photo: "YQ=="}}}))
}
