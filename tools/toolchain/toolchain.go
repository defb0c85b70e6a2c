// Command toolchain checks that a kernel can be built and linked with the
// local toolchain. It must be run from the module root:
//
//	toolchain version [-go go] [-constraint ">= 1.23.0"]
//	toolchain symbols kfs.elf
//
// The version command verifies the Go release; the symbols command verifies
// that a linked kernel image is a 32-bit x86 image that contains the entry
// point called by the boot code and every assembly routine.
package main

import (
	"debug/elf"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
)

func exit(err error) {
	fmt.Fprintf(os.Stderr, "[toolchain] error: %s\n", err.Error())
	os.Exit(1)
}

func versionCmd(args []string) error {
	fs := flag.NewFlagSet("version", flag.ExitOnError)
	goCmd := fs.String("go", "go", "go command to check")
	constraint := fs.String("constraint", defaultConstraint, "supported go releases")
	fs.Parse(args)

	ver, release, err := goVersion(*goCmd)
	if err != nil {
		return err
	}

	if err = checkVersion(ver, *constraint); err != nil {
		return err
	}

	fmt.Printf("%s satisfies %s\n", release, *constraint)
	return nil
}

func symbolsCmd(args []string) error {
	if len(args) != 1 {
		return errors.New("symbols requires the path to the kernel image as an argument")
	}

	symbols, err := collectAsmFuncs(".")
	if err != nil {
		return err
	}

	modPath, err := modulePath(".")
	if err != nil {
		return err
	}
	symbols = append(symbols, &symbol{name: modPath + "/kernel/" + kernelEntry})

	f, err := elf.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	if err = checkTarget(f); err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	if err = resolveSymbols(f, symbols); err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	for _, sym := range symbols {
		fmt.Printf("0x%08x %s\n", sym.vma, sym.name)
	}
	return nil
}

func main() {
	flag.Parse()
	if matches, _ := filepath.Glob("kernel/"); len(matches) != 1 {
		exit(errors.New("this tool must be run from the kernel root folder"))
	}

	if len(flag.Args()) == 0 {
		exit(errors.New("missing command"))
	}

	var err error
	switch cmd := flag.Arg(0); cmd {
	case "version":
		err = versionCmd(flag.Args()[1:])
	case "symbols":
		err = symbolsCmd(flag.Args()[1:])
	default:
		err = fmt.Errorf("unknown command %q", cmd)
	}

	if err != nil {
		exit(err)
	}
}
