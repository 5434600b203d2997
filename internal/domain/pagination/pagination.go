// Package pagination pagina localmente la única página que se pide a Takealot
// (100 solicitudes) y arma la tira de números de página de la vista.
package pagination

// Ellipsis marcador de salto en la tira de números de página.
const Ellipsis = 0

// MaxVisible cantidad máxima de números visibles sin elipsis.
const MaxVisible = 8

// Page porción de una lista ya descargada.
type Page[T any] struct {
	Items      []T
	Page       int
	PerPage    int
	TotalPages int
}

// Slice devuelve la página page (base 1) de items. Páginas fuera de rango se ajustan
// a la primera o a la última.
func Slice[T any](items []T, page, perPage int) Page[T] {
	if perPage <= 0 {
		perPage = 10
	}
	totalPages := (len(items) + perPage - 1) / perPage
	if totalPages == 0 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	start := (page - 1) * perPage
	end := start + perPage
	if end > len(items) {
		end = len(items)
	}
	if start > end {
		start = end
	}
	return Page[T]{
		Items:      items[start:end],
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
	}
}

// Numbers tira de números de página para current/total: siempre la primera y la última,
// una ventana alrededor de current y Ellipsis donde hay saltos.
func Numbers(current, total int) []int {
	if total <= 0 {
		return []int{}
	}
	if total <= MaxVisible {
		pages := make([]int, 0, total)
		for i := 1; i <= total; i++ {
			pages = append(pages, i)
		}
		return pages
	}

	pages := []int{1}
	start := max(2, current-2)
	end := min(total-1, current+2)

	if start <= 4 {
		end = min(total-1, 7)
		start = 2
	} else if end >= total-3 {
		start = max(2, total-6)
		end = total - 1
	}

	if start > 2 {
		pages = append(pages, Ellipsis)
	}
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	if end < total-1 {
		pages = append(pages, Ellipsis)
	}
	return append(pages, total)
}
