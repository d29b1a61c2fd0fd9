package chatbot

import "regexp"

// categoryKeyword maps a trigger word to a category name. An empty category
// means the trigger narrows by product name instead (words like "gaming"
// appear across several categories).
type categoryKeyword struct {
	trigger  string
	category string
}

// categoryKeywords is evaluated in order; every trigger found in the query
// adds its filter. The table mirrors the storefront's historical keyword set
// and must stay byte-identical for response compatibility.
var categoryKeywords = []categoryKeyword{
	{"portatil", "Portátiles Gaming"},
	{"laptop", "Portátiles Gaming"},
	{"notebook", "Portátiles Gaming"},
	{"gaming", ""},
	{"juego", ""},
	{"teclado", "Periféricos"},
	{"mouse", "Periféricos"},
	{"raton", "Periféricos"},
	{"auricular", "Periféricos"},
	{"cascos", "Periféricos"},
	{"tarjeta", "Componentes"},
	{"grafica", "Componentes"},
	{"procesador", "Componentes"},
	{"cpu", "Componentes"},
	{"placa", "Componentes"},
	{"monitor", "Monitores"},
	{"pantalla", "Monitores"},
	{"silla", "Sillas Gaming"},
}

var greetings = []string{
	"hola", "hey", "saludos", "buenos días", "buenas tardes", "buenas noches",
}

var helpKeywords = []string{
	"ayuda", "ayudame", "como funciona", "que haces",
}

// pricePattern extracts a spoken price ceiling. The first non-empty capture
// is scaled by 1000 ("menos de 50" means 50.000).
var pricePattern = regexp.MustCompile(`menos de (\d+)|bajo (\d+)|maximo (\d+)|hasta (\d+)`)

const (
	greetingResponse = "¡Hola! Soy el asistente de TecLegacy. Puedo ayudarte a encontrar productos gaming y tecnología. ¿Qué estás buscando hoy?"

	helpResponse = "Puedo ayudarte a encontrar productos en nuestra tienda. Prueba preguntándome por productos específicos como 'muéstrame teclados gaming' o 'busco un monitor de 27 pulgadas'. También puedes indicarme un rango de precio como 'monitores por menos de 500'."

	truncationHint = "<br>Estos son solo algunos resultados. ¿Quieres más detalles o buscar algo más específico?"
)
