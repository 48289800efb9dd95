package rag

import "strings"

// genericDietKeywords are Spanish phrases that signal an under-specified
// diet question. Queries containing any of them are broadened before
// embedding to pull in general nutrition-guidance chunks.
var genericDietKeywords = []string{
	"dieta",
	"alimentación",
	"plan de comidas",
	"que comer",
	"qué comer",
}

// dietExpansion is appended to generic diet queries before embedding.
const dietExpansion = " nutrición saludable alimentos recomendados plan alimenticio"

// ExpandQuery broadens generic diet questions with nutrition-domain
// keywords to improve recall. Non-generic queries are returned unchanged.
//
// Only the retrieval query is expanded; the original text is what the
// prompt composer and the stored chat history see.
func ExpandQuery(query string) string {
	lower := strings.ToLower(query)
	for _, keyword := range genericDietKeywords {
		if strings.Contains(lower, keyword) {
			return query + dietExpansion
		}
	}
	return query
}
