// Command docarchive packs, unpacks and inspects document archives: ZIP
// containers holding a document, its metadata sidecar and a content.xml
// manifest.
//
//	docarchive pack -meta sidecar.xml -out doc.archive document.pdf
//	docarchive unpack -out dir doc.archive
//	docarchive info doc.archive
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/wudi/docview/archive"
	"github.com/wudi/docview/metadata"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "docarchive: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}
	switch args[0] {
	case "pack":
		return runPack(args[1:])
	case "unpack":
		return runUnpack(args[1:])
	case "info":
		return runInfo(args[1:])
	default:
		usage()
		os.Exit(2)
		return nil
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: docarchive <pack|unpack|info> [flags] <file>")
}

func runPack(args []string) error {
	fs := flag.NewFlagSet("pack", flag.ExitOnError)
	metaPath := fs.String("meta", "", "Metadata sidecar XML to embed")
	out := fs.String("out", "", "Output archive path (default <document>.archive)")
	fs.Parse(args)
	if fs.NArg() != 1 {
		return fmt.Errorf("pack: exactly one document expected")
	}
	docPath := fs.Arg(0)

	var meta []byte
	if *metaPath != "" {
		b, err := os.ReadFile(*metaPath)
		if err != nil {
			return fmt.Errorf("pack: %w", err)
		}
		if _, err := metadata.Parse(b); err != nil {
			return fmt.Errorf("pack: %s is not a valid sidecar: %w", *metaPath, err)
		}
		meta = b
	}
	target := *out
	if target == "" {
		target = docPath + ".archive"
	}
	if err := archive.PackFile(target, docPath, meta); err != nil {
		return fmt.Errorf("pack: %w", err)
	}
	fmt.Println(target)
	return nil
}

func runUnpack(args []string) error {
	fs := flag.NewFlagSet("unpack", flag.ExitOnError)
	out := fs.String("out", ".", "Directory to unpack into")
	fs.Parse(args)
	if fs.NArg() != 1 {
		return fmt.Errorf("unpack: exactly one archive expected")
	}
	c, err := archive.Open(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("unpack: %w", err)
	}
	defer c.Close()

	if err := os.MkdirAll(*out, 0o755); err != nil {
		return err
	}
	doc, err := os.ReadFile(c.DocumentPath)
	if err != nil {
		return err
	}
	docOut := filepath.Join(*out, c.DocumentName)
	if err := os.WriteFile(docOut, doc, 0o644); err != nil {
		return err
	}
	fmt.Println(docOut)
	if len(c.Metadata) > 0 {
		metaOut := filepath.Join(*out, archive.MetadataFileName)
		if err := os.WriteFile(metaOut, c.Metadata, 0o644); err != nil {
			return err
		}
		fmt.Println(metaOut)
	}
	return nil
}

func runInfo(args []string) error {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	fs.Parse(args)
	if fs.NArg() != 1 {
		return fmt.Errorf("info: exactly one archive expected")
	}
	c, err := archive.Open(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("info: %w", err)
	}
	defer c.Close()

	fmt.Printf("document: %s\n", c.DocumentName)
	if len(c.Metadata) == 0 {
		fmt.Println("metadata: none")
		return nil
	}
	info, err := metadata.Parse(c.Metadata)
	if err != nil {
		fmt.Println("metadata: malformed")
		return nil
	}
	fmt.Printf("url: %s\n", info.URL)
	if info.Rotation != 0 {
		fmt.Printf("rotation: %d\n", info.Rotation)
	}
	bookmarks := 0
	annots := 0
	for _, p := range info.Pages {
		if p.Bookmarked {
			bookmarks++
		}
		annots += len(p.Annotations)
	}
	fmt.Printf("bookmarks: %d\nannotations: %d\n", bookmarks, annots)
	if n := len(info.History); n > 0 {
		fmt.Printf("history: %d entries, current %q\n", n, info.History[n-1])
	}
	for _, v := range info.Views {
		fmt.Printf("view %s: zoom %g mode %d\n", v.Name, v.Zoom, v.ZoomMode)
	}
	return nil
}
