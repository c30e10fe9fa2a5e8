package terrain

import "fmt"

// Plan разбиение полос [MinIndex, MaxIndex] на непрерывные области биомов.
// Строится один раз на мир; по нему ленивая генерация заполняет отдельные
// полосы так же, как генерация всего мира за один проход.
type Plan struct {
	MinIndex, MaxIndex int
	spans              biomePlan
}

// PlanChunks выбирает биомы для полос [minIndex, maxIndex]. Использует
// источник случайности генератора так же, как начало GenerateChunks.
func (g *Generator) PlanChunks(minIndex, maxIndex int) (Plan, error) {
	if maxIndex < minIndex {
		return Plan{}, fmt.Errorf("%w: полосы [%d, %d]", ErrMalformedRange, minIndex, maxIndex)
	}
	return Plan{
		MinIndex: minIndex,
		MaxIndex: maxIndex,
		spans:    g.planBiomes(maxIndex - minIndex + 1),
	}, nil
}

// Contains сообщает, покрывает ли план полосу index
func (p Plan) Contains(index int) bool {
	return len(p.spans) > 0 && index >= p.MinIndex && index <= p.MaxIndex
}

// BiomeAt биом полосы index
func (p Plan) BiomeAt(index int) RegionKind {
	return p.spans.biomeAt(index - p.MinIndex)
}

// Regions число непрерывных областей биомов
func (p Plan) Regions() int {
	return len(p.spans)
}

func (p Plan) String() string {
	return p.spans.String()
}

// GenerateColumn генерирует одну полосу index от строки yMin с биомом из плана.
// Источник случайности генератора влияет только на содержимое полосы.
func (g *Generator) GenerateColumn(plan Plan, index, yMin int) (*Result, error) {
	if !plan.Contains(index) {
		return nil, fmt.Errorf("%w: полоса %d вне плана [%d, %d]", ErrMalformedRange, index, plan.MinIndex, plan.MaxIndex)
	}
	xMin := index * GridSize
	res := newResult(xMin, xMin+GridSize, yMin, yMin+g.layout.Height(), g.layout.Height()/GridSize)
	g.fillColumn(res, xMin, plan.BiomeAt(index))
	return res, nil
}
