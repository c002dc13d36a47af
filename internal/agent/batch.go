package agent

import (
	"sort"

	"visaprep/internal/catalog"
)

// maxBatchSize caps the number of field definitions sent in one model call.
const maxBatchSize = 12

// categoryPriority fixes the batch iteration order. The order has no
// functional meaning; it keeps related fields' calls adjacent in logs.
var categoryPriority = map[string]int{
	catalog.CategoryPersonal:       0,
	catalog.CategoryContact:        1,
	catalog.CategoryAddress:        2,
	catalog.CategoryIdentification: 3,
	"passport":                     4,
	catalog.CategoryTravel:         5,
	catalog.CategoryEducation:      6,
	catalog.CategoryEmployment:     7,
	catalog.CategoryFinancial:      8,
	"other":                        9,
}

type fieldBatch struct {
	Category string
	Fields   []catalog.FieldDefinition
}

// buildBatches partitions template fields by category, orders categories by
// priority (unknown categories last, first-appearance order preserved on
// ties) and chunks each category into batches of at most maxBatchSize.
func buildBatches(fields []catalog.FieldDefinition) []fieldBatch {
	grouped := make(map[string][]catalog.FieldDefinition)
	var cats []string
	for _, f := range fields {
		if _, seen := grouped[f.Category]; !seen {
			cats = append(cats, f.Category)
		}
		grouped[f.Category] = append(grouped[f.Category], f)
	}

	sort.SliceStable(cats, func(i, j int) bool {
		return categoryRank(cats[i]) < categoryRank(cats[j])
	})

	var batches []fieldBatch
	for _, cat := range cats {
		fs := grouped[cat]
		for start := 0; start < len(fs); start += maxBatchSize {
			end := start + maxBatchSize
			if end > len(fs) {
				end = len(fs)
			}
			batches = append(batches, fieldBatch{Category: cat, Fields: fs[start:end]})
		}
	}
	return batches
}

func categoryRank(category string) int {
	if r, ok := categoryPriority[category]; ok {
		return r
	}
	return len(categoryPriority)
}
