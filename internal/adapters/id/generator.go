package id

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

type Generator struct{}

func New() *Generator {
	return &Generator{}
}

func (g *Generator) generate(prefix string) string {
	id, err := gonanoid.New(21)
	if err != nil {
		return prefix + "_fallback"
	}
	return prefix + "_" + id
}

func (g *Generator) GenerateLeadID() string {
	return g.generate("lead")
}

func (g *Generator) GenerateBatchID() string {
	return g.generate("bat")
}

func (g *Generator) GenerateRunID() string {
	return g.generate("opt")
}

func (g *Generator) GenerateRankingID() string {
	return g.generate("rank")
}

func (g *Generator) GeneratePromptVersionID() string {
	return g.generate("prm")
}

func (g *Generator) GenerateCallCostID() string {
	return g.generate("cost")
}
