package schema

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Vocabulary file names, in lookup order. YAML is a JSON superset, so
// the same decoder handles both.
var vocabularyFiles = []string{"domains.yaml", "domains.yml", "domains.json"}

var vocabularyValidate = validator.New()

// Vocabulary is the closed set of domains and relations enforced in
// strict mode. Relations are grouped by category (universal,
// domain_specific, cross_domain, ...) in the file.
type Vocabulary struct {
	Domains   []string            `yaml:"domains" json:"domains" validate:"required,min=1,dive,required"`
	Relations map[string][]string `yaml:"relations" json:"relations" validate:"required,min=1,dive,min=1,dive,required"`

	domainSet   map[string]bool
	relationSet map[string]bool
}

// ParseVocabulary decodes and validates vocabulary data
func ParseVocabulary(data []byte) (*Vocabulary, error) {
	var v Vocabulary
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("failed to parse vocabulary: %w", err)
	}
	if err := vocabularyValidate.Struct(&v); err != nil {
		return nil, fmt.Errorf("invalid vocabulary: %w", err)
	}

	v.domainSet = make(map[string]bool, len(v.Domains))
	for _, d := range v.Domains {
		v.domainSet[d] = true
	}
	v.relationSet = make(map[string]bool)
	for _, rels := range v.Relations {
		for _, r := range rels {
			v.relationSet[r] = true
		}
	}
	return &v, nil
}

// findVocabulary returns the path of the first vocabulary file present in
// dir, or "" when there is none.
func findVocabulary(dir string) (string, error) {
	for _, name := range vocabularyFiles {
		path := filepath.Join(dir, name)
		_, err := os.Stat(path)
		if err == nil {
			return path, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
	}
	return "", nil
}

// AllowsDomain reports whether d is in the domain allow-set
func (v *Vocabulary) AllowsDomain(d string) bool {
	return v.domainSet[d]
}

// AllowsRelation reports whether r is in any relation category
func (v *Vocabulary) AllowsRelation(r string) bool {
	return v.relationSet[r]
}

// DomainList returns the allowed domains, sorted
func (v *Vocabulary) DomainList() []string {
	return sortedKeys(v.domainSet)
}

// RelationList returns the merged allowed relations, sorted
func (v *Vocabulary) RelationList() []string {
	return sortedKeys(v.relationSet)
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
