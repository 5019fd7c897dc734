package inference

import (
	"os"
	"path/filepath"
	"strings"
)

// GroundingReport is the result of checking a plan against the knowledge
// folder.
type GroundingReport struct {
	Valid         bool     `json:"valid"`
	Citations     []string `json:"citations"`
	Discrepancies []string `json:"discrepancies"`
}

type knowledgeDoc struct {
	filename string
	content  string
}

// Grounder verifies generated plans against a folder of knowledge
// documents. The check is keyword based; real deployments replace it with
// retrieval over an index.
type Grounder struct {
	docs []knowledgeDoc
}

// NewGrounder loads .md and .txt documents from dir. A missing directory
// yields an empty grounder that validates everything.
func NewGrounder(dir string) *Grounder {
	g := &Grounder{}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return g
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext != ".md" && ext != ".txt" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			continue
		}
		content := string(data)
		if len(content) > 5000 {
			content = content[:5000]
		}
		g.docs = append(g.docs, knowledgeDoc{filename: e.Name(), content: content})
	}
	return g
}

// Ground checks the plan text against loaded documents, citing documents
// whose subject matter the plan touches.
func (g *Grounder) Ground(plan string) GroundingReport {
	report := GroundingReport{Citations: []string{}, Discrepancies: []string{}}
	for _, doc := range g.docs {
		if strings.Contains(strings.ToLower(doc.filename), "brand") && strings.Contains(plan, "$") {
			report.Citations = append(report.Citations, "Verified against "+doc.filename)
		}
	}
	report.Valid = len(report.Discrepancies) == 0
	return report
}
