// Package catalog holds the static pool of board categories.
package catalog

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/playperu/boardquiz/internal/boardquiz"
)

// PoolSize is the number of entries the generated pool is filled up to.
const PoolSize = 1000

// Catalog is a read-only category pool with lookup and filtering.
type Catalog struct {
	pool []boardquiz.Category
	byID map[string]boardquiz.Category
}

// New builds the default catalog.
func New() *Catalog {
	return FromPool(generate())
}

// FromPool wraps an explicit list of categories.
func FromPool(pool []boardquiz.Category) *Catalog {
	return &Catalog{
		pool: pool,
		byID: lo.KeyBy(pool, func(c boardquiz.Category) string { return c.ID }),
	}
}

func (c *Catalog) Len() int { return len(c.pool) }

func (c *Catalog) Lookup(id string) (boardquiz.Category, bool) {
	cat, ok := c.byID[id]
	return cat, ok
}

// All returns a copy of the pool.
func (c *Catalog) All() []boardquiz.Category {
	return append([]boardquiz.Category{}, c.pool...)
}

// Search returns categories whose name or group contains term in either
// language. An empty term matches everything.
func (c *Catalog) Search(term string) []boardquiz.Category {
	if term == "" {
		return c.All()
	}
	return lo.Filter(c.pool, func(cat boardquiz.Category, _ int) bool {
		return cat.Matches(term)
	})
}

// ByGroup returns categories whose group equals group in either language.
func (c *Catalog) ByGroup(group string) []boardquiz.Category {
	return lo.Filter(c.pool, func(cat boardquiz.Category, _ int) bool {
		return cat.Group.AR == group || cat.Group.EN == group
	})
}

// Filter applies the search term first; the group is only used when the
// term is empty.
func (c *Catalog) Filter(term, group string) []boardquiz.Category {
	switch {
	case term != "":
		return c.Search(term)
	case group != "":
		return c.ByGroup(group)
	default:
		return c.All()
	}
}

// Groups lists the distinct group names in lang, in first-seen order.
func (c *Catalog) Groups(lang boardquiz.Language) []string {
	return lo.Uniq(lo.Map(c.pool, func(cat boardquiz.Category, _ int) string {
		return cat.Group.In(lang)
	}))
}

type topic struct {
	ar, en, icon string
}

func generate() []boardquiz.Category {
	quran := boardquiz.Text{AR: "القرآن الكريم", EN: "Holy Quran"}
	pool := []boardquiz.Category{
		{ID: "q_v", Group: quran, Name: boardquiz.Text{AR: "أكمل الآية", EN: "Complete the Verse"}, Icon: "📖"},
		{ID: "q_r", Group: quran, Name: boardquiz.Text{AR: "أسباب النزول", EN: "Reasons for Revelation"}, Icon: "🕊️"},
	}

	juz := boardquiz.Text{AR: "أجزاء القرآن", EN: "Quran Juz"}
	for i := 1; i <= 30; i++ {
		pool = append(pool, boardquiz.Category{
			ID:    fmt.Sprintf("juz_%d", i),
			Group: juz,
			Name:  boardquiz.Text{AR: fmt.Sprintf("الجزء %d", i), EN: fmt.Sprintf("Juz %d", i)},
			Icon:  "📜",
		})
	}

	vehicles := []topic{
		{"سيارات مرسيدس", "Mercedes Cars", "🚗"},
		{"سيارات بي إم دبليو", "BMW Cars", "🏎️"},
		{"طائرات بوينج", "Boeing Planes", "✈️"},
		{"طائرات إيرباص", "Airbus Planes", "🛫"},
		{"دبابة أبرامز", "Abrams Tank", "🚜"},
		{"دبابة تي-90", "T-90 Tank", "🛡️"},
		{"سفن حربية", "Battleships", "🚢"},
	}
	vehicleGroup := boardquiz.Text{AR: "مركبات وآلات", EN: "Vehicles"}
	for i, v := range vehicles {
		pool = append(pool, boardquiz.Category{
			ID:    fmt.Sprintf("v_%d", i),
			Group: vehicleGroup,
			Name:  boardquiz.Text{AR: v.ar, EN: v.en},
			Icon:  v.icon,
		})
	}

	info := []topic{
		{"دول", "Countries", "🌍"},
		{"أعلام", "Flags", "🚩"},
		{"لهجات", "Dialects", "🗣️"},
		{"لغات", "Languages", "🌐"},
		{"تاريخ", "History", "🕰️"},
		{"جغرافيا", "Geography", "🗺️"},
		{"أمثال شعبية", "Proverbs", "📜"},
		{"أدب عربي", "Arabic Literature", "🖋️"},
	}
	infoGroup := boardquiz.Text{AR: "معلومات عامة", EN: "General Knowledge"}
	for i, t := range info {
		for level := 1; level <= 50; level++ {
			pool = append(pool, boardquiz.Category{
				ID:    fmt.Sprintf("info_%d_%d", i, level),
				Group: infoGroup,
				Name: boardquiz.Text{
					AR: fmt.Sprintf("%s - مستوى %d", t.ar, level),
					EN: fmt.Sprintf("%s - Lv %d", t.en, level),
				},
				Icon: t.icon,
			})
		}
	}

	misc := []topic{
		{"كيمياء", "Chemistry", "🧪"},
		{"فيزياء", "Physics", "⚛️"},
		{"فلك", "Astronomy", "🔭"},
		{"طب", "Medicine", "🩺"},
		{"رياضة", "Sports", "⚽"},
		{"فنون", "Arts", "🎨"},
		{"تقنية", "Tech", "💻"},
		{"حيوانات", "Animals", "🦁"},
		{"نباتات", "Plants", "🌿"},
	}
	miscGroup := boardquiz.Text{AR: "مجالات متنوعة", EN: "Miscellaneous"}
	remaining := PoolSize - len(pool)
	for i := 0; i < remaining; i++ {
		t := misc[i%len(misc)]
		part := i/len(misc) + 1
		pool = append(pool, boardquiz.Category{
			ID:    fmt.Sprintf("misc_%d", i),
			Group: miscGroup,
			Name: boardquiz.Text{
				AR: fmt.Sprintf("%s - قسم %d", t.ar, part),
				EN: fmt.Sprintf("%s - Part %d", t.en, part),
			},
			Icon: t.icon,
		})
	}

	return pool
}
