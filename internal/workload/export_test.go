package workload

import "github.com/purpl3F0x/typst/pkg/intern"

// ResolveSymbol exposes resolve for the symbol table.
func ResolveSymbol(table *intern.Interner[Symbol, uint32], id intern.ID[Symbol, uint32]) (Symbol, error) {
	return resolve(table, id)
}

// ErrorType exposes errorType.
var ErrorType = errorType
