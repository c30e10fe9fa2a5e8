package terrain

import (
	"fmt"
	"strings"
)

type biomeSpan struct {
	kind  RegionKind
	width int
}

// biomePlan разбиение столбцов на непрерывные области биомов слева направо
type biomePlan []biomeSpan

// planBiomes выбирает от 2 до 4 биомов. Каждый выбор добавляет columns/n
// столбцов; повторный выбор расширяет уже созданную область. Последняя
// область забирает остаток.
func (g *Generator) planBiomes(columns int) biomePlan {
	n := 2 + g.rng.Intn(3)
	quota := columns / n

	var plan biomePlan
	for i := 0; i < n; i++ {
		kind := Biomes[g.rng.Intn(len(Biomes))]
		merged := false
		for j := range plan {
			if plan[j].kind == kind {
				plan[j].width += quota
				merged = true
				break
			}
		}
		if !merged {
			plan = append(plan, biomeSpan{kind: kind, width: quota})
		}
	}

	used := 0
	for _, s := range plan[:len(plan)-1] {
		used += s.width
	}
	plan[len(plan)-1].width = columns - used
	return plan
}

// biomeAt биом столбца с номером col
func (p biomePlan) biomeAt(col int) RegionKind {
	for _, s := range p {
		if col < s.width {
			return s.kind
		}
		col -= s.width
	}
	return p[len(p)-1].kind
}

func (p biomePlan) String() string {
	parts := make([]string, len(p))
	for i, s := range p {
		parts[i] = fmt.Sprintf("%s:%d", s.kind, s.width)
	}
	return strings.Join(parts, " ")
}
