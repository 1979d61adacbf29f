// Package address holds the Brazilian address reference data the employee
// form looks states and cities up in.
package address

import "strings"

// StateVO is one federative unit as served by the backend.
type StateVO struct {
	ID      int64  `json:"id"`
	Acronym string `json:"acronym"`
	Name    string `json:"name"`
}

// CityVO belongs to exactly one state.
type CityVO struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	StateID int64  `json:"stateId"`
}

var stateNames = map[string]string{
	"AC": "Acre",
	"AL": "Alagoas",
	"AM": "Amazonas",
	"AP": "Amapá",
	"BA": "Bahia",
	"CE": "Ceará",
	"DF": "Distrito Federal",
	"ES": "Espírito Santo",
	"GO": "Goiás",
	"MA": "Maranhão",
	"MG": "Minas Gerais",
	"MS": "Mato Grosso do Sul",
	"MT": "Mato Grosso",
	"PA": "Pará",
	"PB": "Paraíba",
	"PE": "Pernambuco",
	"PI": "Piauí",
	"PR": "Paraná",
	"RJ": "Rio de Janeiro",
	"RN": "Rio Grande do Norte",
	"RO": "Rondônia",
	"RR": "Roraima",
	"RS": "Rio Grande do Sul",
	"SC": "Santa Catarina",
	"SE": "Sergipe",
	"SP": "São Paulo",
	"TO": "Tocantins",
}

func IsState(acronym string) bool {
	_, ok := stateNames[strings.ToUpper(acronym)]
	return ok
}

// StateName returns the full name of a state acronym.
func StateName(acronym string) (string, bool) {
	name, ok := stateNames[strings.ToUpper(acronym)]
	return name, ok
}

// FindState returns the state with the given acronym.
func FindState(states []StateVO, acronym string) (StateVO, bool) {
	for _, s := range states {
		if strings.EqualFold(s.Acronym, acronym) {
			return s, true
		}
	}
	return StateVO{}, false
}

// FindCity returns the city of stateID named exactly name.
func FindCity(cities []CityVO, stateID int64, name string) (CityVO, bool) {
	for _, c := range cities {
		if c.StateID == stateID && c.Name == name {
			return c, true
		}
	}
	return CityVO{}, false
}
