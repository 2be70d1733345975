package models

// ProteinOption is a selectable protein for a food item. At most one option
// per item carries Default.
type ProteinOption struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Price   int64  `json:"price" yaml:"price"`
	Default bool   `json:"default,omitempty" yaml:"default"`
}

// SideOption is an optional extra for a food item.
type SideOption struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Price int64  `json:"price" yaml:"price"`
}

// FoodItem represents a dish on the menu. Prices are whole naira.
type FoodItem struct {
	ID             string          `json:"id" yaml:"id" gorm:"primaryKey;type:varchar(64)"`
	Name           string          `json:"name" yaml:"name" gorm:"type:varchar(150)"`
	Price          int64           `json:"price" yaml:"price"`
	Image          string          `json:"image" yaml:"image"`
	Description    string          `json:"description" yaml:"description"`
	Category       string          `json:"category" yaml:"category" gorm:"index;type:varchar(100)"`
	Position       int             `json:"-" yaml:"-"`
	Tags           []string        `json:"tags,omitempty" yaml:"tags" gorm:"serializer:json"`
	ProteinOptions []ProteinOption `json:"proteinOptions,omitempty" yaml:"proteinOptions" gorm:"serializer:json"`
	SideOptions    []SideOption    `json:"sideOptions,omitempty" yaml:"sideOptions" gorm:"serializer:json"`
}

// DefaultProtein returns the id of the default protein option, or "".
func (f FoodItem) DefaultProtein() string {
	for _, p := range f.ProteinOptions {
		if p.Default {
			return p.ID
		}
	}
	return ""
}

// Protein looks up a protein option by id.
func (f FoodItem) Protein(id string) (ProteinOption, bool) {
	for _, p := range f.ProteinOptions {
		if p.ID == id {
			return p, true
		}
	}
	return ProteinOption{}, false
}

// Side looks up a side option by id.
func (f FoodItem) Side(id string) (SideOption, bool) {
	for _, s := range f.SideOptions {
		if s.ID == id {
			return s, true
		}
	}
	return SideOption{}, false
}

// Category groups food items on the menu.
type Category struct {
	Name        string `json:"name" yaml:"name" gorm:"primaryKey;type:varchar(100)"`
	Description string `json:"description" yaml:"description"`
	Image       string `json:"image" yaml:"image"`
	Position    int    `json:"-" yaml:"-"`
}
