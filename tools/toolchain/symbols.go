package main

import (
	"bufio"
	"debug/elf"
	"errors"
	"fmt"
	"go/ast"
	"go/build"
	"go/parser"
	"go/token"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// kernelEntry is the symbol invoked by the boot code.
const kernelEntry = "kmain.Kmain"

// symbol is a function that must be present in the linked kernel image.
type symbol struct {
	name string
	vma  uint64
}

// modulePath returns the module path declared in the go.mod file located in
// root.
func modulePath(root string) (string, error) {
	f, err := os.Open(filepath.Join(root, "go.mod"))
	if err != nil {
		return "", err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 2 && fields[0] == "module" {
			return strings.Trim(fields[1], `"`), nil
		}
	}

	if err = scanner.Err(); err != nil {
		return "", err
	}

	return "", errors.New("go.mod does not declare a module path")
}

// collectAsmFuncs returns the qualified names of all functions declared
// without a body (implemented in assembly) by the 386 kernel sources below
// root/kernel.
func collectAsmFuncs(root string) ([]*symbol, error) {
	modPath, err := modulePath(root)
	if err != nil {
		return nil, err
	}

	ctx := build.Default
	ctx.GOOS, ctx.GOARCH = "linux", "386"

	var symbols []*symbol
	err = filepath.Walk(filepath.Join(root, "kernel"), func(p string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}

		if filepath.Ext(p) != ".go" || strings.HasSuffix(p, "_test.go") {
			return nil
		}

		dir, name := filepath.Split(p)
		if match, err := ctx.MatchFile(dir, name); err != nil || !match {
			return err
		}

		f, err := parser.ParseFile(token.NewFileSet(), p, nil, parser.SkipObjectResolution)
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(root, filepath.Dir(p))
		if err != nil {
			return err
		}
		pkgPath := path.Join(modPath, filepath.ToSlash(rel))

		for _, decl := range f.Decls {
			if fnDecl, ok := decl.(*ast.FuncDecl); ok && fnDecl.Body == nil && fnDecl.Recv == nil {
				symbols = append(symbols, &symbol{name: pkgPath + "." + fnDecl.Name.Name})
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(symbols, func(i, j int) bool { return symbols[i].name < symbols[j].name })
	return symbols, nil
}

// checkTarget returns an error if f is not a 32-bit x86 image.
func checkTarget(f *elf.File) error {
	if f.Class != elf.ELFCLASS32 || f.Machine != elf.EM_386 {
		return fmt.Errorf("expected a %s %s image; got %s %s", elf.ELFCLASS32, elf.EM_386, f.Class, f.Machine)
	}

	return nil
}

// resolveSymbols looks up the address of each symbol in the ELF image f.
func resolveSymbols(f *elf.File, symbols []*symbol) error {
	elfSymbols, err := f.Symbols()
	if err != nil {
		return err
	}

	for _, sym := range symbols {
		for _, elfSym := range elfSymbols {
			if elfSym.Name == sym.name {
				sym.vma = elfSym.Value
				break
			}
		}

		if sym.vma == 0 {
			return fmt.Errorf("could not locate address of %q", sym.name)
		}
	}

	return nil
}
