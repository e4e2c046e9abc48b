package classifier

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/workbook"
	"gopkg.in/yaml.v3"
)

// Column identifies a logical column independently of its header spelling.
type Column string

const (
	ColName            Column = "name"
	ColDate            Column = "date"
	ColAmount          Column = "amount"
	ColType            Column = "type"
	ColCategory        Column = "category"
	ColOutAccount      Column = "out_account"
	ColInAccount       Column = "in_account"
	ColInstallment     Column = "installment"
	ColInstallments    Column = "installments"
	ColMonth           Column = "month"
	ColYear            Column = "year"
	ColEstimatedAmount Column = "estimated_amount"
)

// Columns and order of the two sheets the writer emits.
var (
	TransactionColumns = []Column{ColName, ColDate, ColAmount, ColType, ColCategory, ColOutAccount, ColInAccount}
	PlanningColumns    = []Column{ColMonth, ColYear, ColCategory, ColEstimatedAmount}
)

var knownColumns = map[Column]bool{
	ColName: true, ColDate: true, ColAmount: true, ColType: true, ColCategory: true,
	ColOutAccount: true, ColInAccount: true, ColInstallment: true, ColInstallments: true,
	ColMonth: true, ColYear: true, ColEstimatedAmount: true,
}

//go:embed vocabulary.yaml
var defaultVocabulary []byte

// Locale holds the sheet titles and header labels written for one language.
type Locale struct {
	TransactionsTitle string            `yaml:"transactions_title"`
	PlanningTitle     string            `yaml:"planning_title"`
	Labels            map[Column]string `yaml:"labels"`
}

// Vocabulary maps header spellings to columns and carries the writer labels.
type Vocabulary struct {
	Aliases map[Column][]string `yaml:"aliases"`
	Locales map[string]Locale   `yaml:"locales"`

	lookup map[string]Column
	titles map[Role]map[string]bool
}

// DefaultVocabulary returns the built-in Portuguese/English vocabulary.
func DefaultVocabulary() (*Vocabulary, error) {
	return ParseVocabulary(defaultVocabulary)
}

// ParseVocabulary decodes and validates a YAML vocabulary document.
func ParseVocabulary(data []byte) (*Vocabulary, error) {
	var v Vocabulary
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("error parsing vocabulary: %w", err)
	}
	if err := v.build(); err != nil {
		return nil, err
	}
	return &v, nil
}

// LoadVocabulary returns the default vocabulary extended by the YAML file at
// path. Aliases from the file are added to the built-in ones; a locale in the
// file replaces the built-in locale of the same name. An empty path yields the
// default vocabulary.
func LoadVocabulary(path string) (*Vocabulary, error) {
	v, err := DefaultVocabulary()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return v, nil
	}

	resolved, err := findVocabularyFile(path)
	if err != nil {
		return nil, fmt.Errorf("vocabulary file %s: %w", path, err)
	}
	data, err := os.ReadFile(resolved) // #nosec G304 -- path comes from configuration
	if err != nil {
		return nil, fmt.Errorf("error reading vocabulary file: %w", err)
	}

	var extra Vocabulary
	if err := yaml.Unmarshal(data, &extra); err != nil {
		return nil, fmt.Errorf("error parsing vocabulary file %s: %w", resolved, err)
	}
	for col, aliases := range extra.Aliases {
		v.Aliases[col] = append(v.Aliases[col], aliases...)
	}
	for name, locale := range extra.Locales {
		v.Locales[name] = locale
	}
	if err := v.build(); err != nil {
		return nil, fmt.Errorf("vocabulary file %s: %w", resolved, err)
	}
	return v, nil
}

// findVocabularyFile looks for a relative path in the working directory, then
// under ./config and $HOME/.financeiro.
func findVocabularyFile(path string) (string, error) {
	if filepath.IsAbs(path) {
		if _, err := os.Stat(path); err != nil {
			return "", err
		}
		return path, nil
	}

	locations := []string{path, filepath.Join("config", path)}
	if home, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(home, ".financeiro", path))
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}
	return "", os.ErrNotExist
}

func (v *Vocabulary) build() error {
	v.lookup = make(map[string]Column)
	add := func(col Column, label string) error {
		key := Normalize(label)
		if key == "" {
			return fmt.Errorf("empty alias for column %s", col)
		}
		if other, ok := v.lookup[key]; ok && other != col {
			return fmt.Errorf("alias %q is used by both %s and %s", label, other, col)
		}
		v.lookup[key] = col
		return nil
	}

	for col, aliases := range v.Aliases {
		if !knownColumns[col] {
			return fmt.Errorf("unknown column %q in vocabulary", col)
		}
		for _, alias := range aliases {
			if err := add(col, alias); err != nil {
				return err
			}
		}
	}

	if len(v.Locales) == 0 {
		return fmt.Errorf("vocabulary defines no locale")
	}
	v.titles = map[Role]map[string]bool{RoleTransactions: {}, RolePlanning: {}}
	for name, locale := range v.Locales {
		if locale.TransactionsTitle == "" || locale.PlanningTitle == "" {
			return fmt.Errorf("locale %s: sheet titles are required", name)
		}
		if Normalize(locale.TransactionsTitle) == Normalize(locale.PlanningTitle) {
			return fmt.Errorf("locale %s: sheet titles must differ", name)
		}
		v.titles[RoleTransactions][Normalize(locale.TransactionsTitle)] = true
		v.titles[RolePlanning][Normalize(locale.PlanningTitle)] = true

		for _, col := range append(append([]Column{}, TransactionColumns...), PlanningColumns...) {
			label, ok := locale.Labels[col]
			if !ok || label == "" {
				return fmt.Errorf("locale %s: missing label for column %s", name, col)
			}
			// Written labels must read back as the same column.
			if err := add(col, label); err != nil {
				return fmt.Errorf("locale %s: %w", name, err)
			}
		}
	}
	return nil
}

// Lookup returns the column a header label names.
func (v *Vocabulary) Lookup(label string) (Column, bool) {
	col, ok := v.lookup[Normalize(label)]
	return col, ok
}

// IsTitle reports whether a sheet name is a conventional title for role in any
// locale.
func (v *Vocabulary) IsTitle(role Role, sheetName string) bool {
	return v.titles[role][Normalize(sheetName)]
}

// LocaleNames lists the configured locales in lexical order.
func (v *Vocabulary) LocaleNames() []string {
	names := make([]string, 0, len(v.Locales))
	for name := range v.Locales {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WriterLayout returns the titles and header labels for exports in locale.
func (v *Vocabulary) WriterLayout(locale string) (workbook.Layout, error) {
	l, ok := v.Locales[locale]
	if !ok {
		return workbook.Layout{}, fmt.Errorf("unknown workbook locale %q", locale)
	}
	layout := workbook.Layout{
		TransactionsTitle: l.TransactionsTitle,
		PlanningTitle:     l.PlanningTitle,
	}
	for _, col := range TransactionColumns {
		layout.TransactionHeaders = append(layout.TransactionHeaders, l.Labels[col])
	}
	for _, col := range PlanningColumns {
		layout.PlanningHeaders = append(layout.PlanningHeaders, l.Labels[col])
	}
	return layout, nil
}
