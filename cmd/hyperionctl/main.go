// SPDX-License-Identifier: GPL-2.0-only

/*
hyperionctl inspects and decodes hyperion ring-log images captured off a
device's flash (or any raw compressed packet stream laid out the same
way: contiguous PacketSize-aligned chunks).

Usage:

	hyperionctl -image ring.bin [-entries entries.txt] dump
	hyperionctl -image ring.bin info
	hyperionctl -image ring.bin erase

The image file must be exactly ring.NumSectors*ring.SectorSize bytes,
matching the on-device flash geometry.

The entries file registers log formats for the "dump" command, one per
line: a hex id, whitespace, then a printf-style format string, e.g.

	0x0004  MAX_TFLOW: %3.2f
	0x8037  OTS1: %5.2f Ohm %4.2f C

Ids with no registered entry still decode if they were logged through
Printf (the reserved id); any other unregistered frame is printed as a
raw-span line under the "[0xFFFF][L] " prefix, like any other noise in the
stream.
*/
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/embeddedlog/hyperion"
	"github.com/embeddedlog/hyperion/internal/ring"
	"github.com/embeddedlog/hyperion/logline"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "hyperionctl:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("hyperionctl", flag.ContinueOnError)
	image := fs.String("image", "", "path to a ring image file (required)")
	entries := fs.String("entries", "", "path to a log-entries text file for the dump command")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *image == "" {
		return fmt.Errorf("-image is required")
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("expected exactly one command: dump, info, or erase")
	}

	switch fs.Arg(0) {
	case "dump":
		return cmdDump(*image, *entries)
	case "info":
		return cmdInfo(*image)
	case "erase":
		return cmdErase(*image)
	default:
		return fmt.Errorf("unknown command %q: expected dump, info, or erase", fs.Arg(0))
	}
}

func cmdDump(imagePath, entriesPath string) error {
	_, store, err := openStore(imagePath)
	if err != nil {
		return err
	}

	var registry logline.Registry
	if entriesPath != "" {
		group, err := loadEntries(entriesPath)
		if err != nil {
			return fmt.Errorf("loading entries: %w", err)
		}
		registry.Register(group)
	}

	reader, err := hyperion.NewReader(store, &registry)
	if err != nil {
		return fmt.Errorf("positioning reader: %w", err)
	}

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	buf := make([]byte, 4096)
	for {
		n, err := reader.Next(buf)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("decoding: %w", err)
		}
		if _, err := out.Write(buf[:n]); err != nil {
			return err
		}
	}
}

func cmdInfo(imagePath string) error {
	_, store, err := openStore(imagePath)
	if err != nil {
		return err
	}
	idx := store.WriteIndex()
	fmt.Printf("sectors=%d pages/sector=%d page size=%d bytes\n", ring.NumSectors, ring.PagesPerSector, ring.PageSize)
	fmt.Printf("sector size=%d packet size=%d\n", ring.SectorSize, ring.PacketSize)
	fmt.Printf("write cursor: sector=%d page=%d byte=%d (offset=%d)\n", idx.Sector, idx.Page, idx.Byte, idx.PhysicalOffset())
	return nil
}

func cmdErase(imagePath string) error {
	flash, store, err := openStore(imagePath)
	if err != nil {
		return err
	}
	if err := store.EraseAll(); err != nil {
		return fmt.Errorf("erasing: %w", err)
	}
	return writeImage(imagePath, flash.data)
}

// openStore loads imagePath into a fileFlash and recovers a ring.Store
// over it, mirroring how the device recovers its write cursor at boot.
func openStore(imagePath string) (*fileFlash, *ring.Store, error) {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, nil, fmt.Errorf("reading image: %w", err)
	}
	want := ring.NumSectors * ring.SectorSize
	if len(data) != int(want) {
		return nil, nil, fmt.Errorf("image is %d bytes, want %d (ring.NumSectors*ring.SectorSize)", len(data), want)
	}

	flash := &fileFlash{data: data}
	store, err := ring.NewStore(flash, noopWatchdog{})
	if err != nil {
		return nil, nil, fmt.Errorf("recovering write cursor: %w", err)
	}
	return flash, store, nil
}

func writeImage(imagePath string, data []byte) error {
	return os.WriteFile(imagePath, data, 0o644)
}

func loadEntries(path string) (logline.Group, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var group logline.Group
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		sep := strings.IndexAny(line, " \t")
		if sep < 0 {
			return nil, fmt.Errorf("line %d: expected \"<id> <format>\"", lineNo)
		}
		idText, format := line[:sep], line[sep+1:]
		id, err := strconv.ParseUint(idText, 0, 16)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad id %q: %w", lineNo, idText, err)
		}
		group = append(group, logline.Entry{ID: uint16(id), Format: strings.TrimSpace(format)})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return group, nil
}
