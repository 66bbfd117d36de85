package cascade

// MergePackages folds each entry of packages into main using the deep-merge
// rules of the Package Merger (spec §4.6): mappings recurse, sequences
// concatenate main-before-package, and scalars (or a type mismatch) keep
// main's value. Iteration order over packages does not affect the result.
func MergePackages(main *Mapping, packages *Mapping, warn func(StructuralWarning), file string) {
	for _, name := range packages.Keys() {
		entry, _ := packages.Get(name)
		pkg, ok := entry.(*Mapping)
		if !ok {
			warn(newWarning(file, "packages."+name, "package entry is not a mapping; skipped"))
			continue
		}
		deepMerge(main, pkg)
	}
}

func deepMerge(main *Mapping, pkg *Mapping) {
	for _, key := range pkg.Keys() {
		pkgChild, _ := pkg.Get(key)
		mainChild, exists := main.Get(key)
		if !exists {
			main.Set(key, pkgChild)
			continue
		}

		if mainMap, ok := mainChild.(*Mapping); ok {
			if pkgMap, ok := pkgChild.(*Mapping); ok {
				deepMerge(mainMap, pkgMap)
				continue
			}
		}

		if mainSeq, ok := mainChild.([]Value); ok {
			if pkgSeq, ok := pkgChild.([]Value); ok {
				merged := make([]Value, 0, len(mainSeq)+len(pkgSeq))
				merged = append(merged, mainSeq...)
				merged = append(merged, pkgSeq...)
				main.Set(key, merged)
				continue
			}
		}

		// Scalars, or a type mismatch between main and package: main wins.
	}
}
