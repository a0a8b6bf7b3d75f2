package models

// SourceKind selects how an entity's statements are retrieved.
type SourceKind string

const (
	SourceMarket SourceKind = "market" // quarterly statements from the market-data API
	SourceFiling SourceKind = "filing" // cumulative regulatory filings
)

// EntityDefinition is the static identity of one covered company. Read-only.
type EntityDefinition struct {
	ID        string     `json:"id" yaml:"id"`
	Symbol    string     `json:"symbol" yaml:"symbol"`
	CorpCode  string     `json:"corpCode,omitempty" yaml:"corp_code"`
	Source    SourceKind `json:"source" yaml:"source"`
	Name      string     `json:"name" yaml:"name"`
	NameKo    string     `json:"nameKo,omitempty" yaml:"name_ko"`
	Currency  string     `json:"currency" yaml:"currency"`
	NewsQuery []string   `json:"newsQuery,omitempty" yaml:"news_query"`
	Color     string     `json:"color,omitempty" yaml:"color"`
}

// DisplayName is the label used in error messages.
func (e EntityDefinition) DisplayName() string {
	if e.Name != "" {
		return e.Name
	}
	return e.ID
}

// DomainMetric is a hand-maintained industry figure attached to an entity.
type DomainMetric struct {
	Name     string   `json:"name" yaml:"name"`
	Label    string   `json:"label,omitempty" yaml:"label"`
	Value    float64  `json:"value" yaml:"value"`
	Unit     string   `json:"unit,omitempty" yaml:"unit"`
	Currency string   `json:"currency,omitempty" yaml:"currency"`
	ValueKRW *float64 `json:"valueKRW,omitempty" yaml:"-"`
	AsOf     string   `json:"asOf,omitempty" yaml:"as_of"`
}
