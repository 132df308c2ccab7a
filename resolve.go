package linkorder

import "github.com/sirupsen/logrus"

// Resolve runs the whole pipeline over one filesystem snapshot:
// discover archives under cfg.Root, merge their symbols, build the
// dependency graph, and topologically sort it into a link order.
//
// On failure the error is either a *MultipleDefinitionsError or a
// *CyclicDependencyError (wrapped scan errors aside), and no partial
// result is returned.
func Resolve(cfg ScanConfig) (*ResolveResult, error) {
	logger := cfg.logger()

	libs, err := DiscoverLibraries(cfg)
	if err != nil {
		return nil, err
	}
	logger.WithField("libraries", len(libs)).Debug("catalog assembled")

	table, err := BuildSymbolTable(libs)
	if err != nil {
		return nil, err
	}
	for _, dup := range table.Duplicates() {
		logger.WithFields(logrus.Fields{
			"symbol": dup.Symbol.String(),
			"first":  dup.First.Name,
			"second": dup.Second.Name,
		}).Debug("tolerating duplicate definition of unreferenced symbol")
	}

	ordered, err := OrderLibraries(libs, table)
	if err != nil {
		return nil, err
	}

	return &ResolveResult{
		Ordered:    ordered,
		Directives: Directives(ordered),
		Table:      table,
	}, nil
}
