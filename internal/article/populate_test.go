// Copyright (c) 2026 Epylog. All rights reserved.

package article

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epylog/epylog/pkg/pointer"
)

/*
TestIndexForPopulation verifies relations are reset to empty slices before
assembly, so unpopulated articles serialize with [] rather than null.
*/
func TestIndexForPopulation(t *testing.T) {
	first := &Article{ID: "a1"}
	second := &Article{ID: "a2"}

	byID, ids := indexForPopulation([]*Article{first, second})

	assert.Equal(t, []string{"a1", "a2"}, ids)
	assert.Same(t, first, byID["a1"])
	assert.Same(t, second, byID["a2"])

	for _, a := range []*Article{first, second} {
		assert.NotNil(t, a.Categories)
		assert.Empty(t, a.Categories)
		assert.NotNil(t, a.Authors)
		assert.Empty(t, a.Authors)
	}
}

/*
TestAssembleCategoryRefs verifies the category relation assembly: rows land on
their article in row order, the main category nests one level, and a dangling
reference keeps its raw id while the populated list skips it.
*/
func TestAssembleCategoryRefs(t *testing.T) {
	first := &Article{ID: "a1"}
	second := &Article{ID: "a2"}
	byID, _ := indexForPopulation([]*Article{first, second})

	assembleCategoryRefs(byID, []categoryRefRow{
		// a1 position 0: subcategory with a resolved main category.
		{
			articleID: "a1", refID: "cat-algebra",
			catID: pointer.To("cat-algebra"), catName: pointer.To("Algebra"),
			catMainID: pointer.To("cat-math"),
			mainID:    pointer.To("cat-math"), mainName: pointer.To("Mathematics"),
		},
		// a1 position 1: reference to a deleted category — no join rows.
		{articleID: "a1", refID: "cat-gone"},
		// a1 position 2: root category, no main.
		{
			articleID: "a1", refID: "cat-physics",
			catID: pointer.To("cat-physics"), catName: pointer.To("Physics"),
		},
		// a2: single root category.
		{
			articleID: "a2", refID: "cat-math",
			catID: pointer.To("cat-math"), catName: pointer.To("Mathematics"),
		},
	})

	// Raw references keep every id in stored order, dangling one included, so
	// an update that leaves categories untouched never drops it.
	assert.Equal(t, []string{"cat-algebra", "cat-gone", "cat-physics"}, first.CategoryIDs)

	// The populated list skips the dangling reference.
	require.Len(t, first.Categories, 2)
	assert.Equal(t, "cat-algebra", first.Categories[0].ID)
	require.NotNil(t, first.Categories[0].MainCategory)
	assert.Equal(t, "cat-math", first.Categories[0].MainCategory.ID)
	assert.Equal(t, "Mathematics", first.Categories[0].MainCategory.Name)

	assert.Equal(t, "cat-physics", first.Categories[1].ID)
	assert.Nil(t, first.Categories[1].MainCategory)

	require.Len(t, second.Categories, 1)
	assert.Equal(t, []string{"cat-math"}, second.CategoryIDs)
}

/*
TestAssembleAuthors verifies author rows land on their article in row order
and that the author projection never carries credentials: no password, no
hash, no tokens in its serialized form.
*/
func TestAssembleAuthors(t *testing.T) {
	first := &Article{ID: "a1"}
	second := &Article{ID: "a2"}
	byID, _ := indexForPopulation([]*Article{first, second})

	assembleAuthors(byID, []authorRow{
		{articleID: "a1", author: &Author{
			ID: "u1", Email: "ada@example.com", GivenName: "Ada", FamilyName: "Lovelace",
			BirthDate: time.Date(1990, 12, 10, 0, 0, 0, 0, time.UTC),
			Interests: []string{"analysis"},
		}},
		{articleID: "a1", author: &Author{ID: "u2", Email: "kurt@example.com"}},
		{articleID: "a2", author: &Author{ID: "u1", Email: "ada@example.com"}},
	})

	require.Len(t, first.Authors, 2)
	assert.Equal(t, "u1", first.Authors[0].ID)
	assert.Equal(t, "u2", first.Authors[1].ID)
	require.Len(t, second.Authors, 1)

	serialized, err := json.Marshal(first.Authors[0])
	require.NoError(t, err)
	assert.Contains(t, string(serialized), "ada@example.com")
	assert.NotContains(t, string(serialized), "password")
	assert.NotContains(t, string(serialized), "hash")
	assert.NotContains(t, string(serialized), "token")
}
