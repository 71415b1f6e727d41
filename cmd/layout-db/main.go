// Command layout-db saves a preset layout to a buntdb file, or reads one
// back and prints what the rebuilt graph contains.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/tidwall/buntdb"

	"nyiyui.ca/hato/senro/store"
	"nyiyui.ca/hato/senro/track"
	"nyiyui.ca/hato/senro/track/preset"
)

var dbPath string
var mode string
var presetName string

func main() {
	flag.StringVar(&dbPath, "db-path", "./layout.db", "path to database")
	flag.StringVar(&mode, "mode", "", "read or write")
	flag.StringVar(&presetName, "preset", "testbench2", "preset to write")
	flag.Parse()
	err := main2()
	if err != nil {
		log.Fatalf("error: %s", err)
	}
}

func main2() error {
	db, err := buntdb.Open(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()
	db.ReadConfig(&buntdb.Config{
		SyncPolicy: buntdb.Always,
	})
	switch mode {
	case "write":
		var g *track.Graph
		switch presetName {
		case "testbench1":
			g, err = preset.Testbench1()
		case "testbench2":
			g, err = preset.Testbench2()
		case "testbench3":
			g, err = preset.Testbench3()
		case "testbench4":
			g, err = preset.Testbench4()
		default:
			return fmt.Errorf("unknown preset %q", presetName)
		}
		if err != nil {
			return err
		}
		return store.Save(db, g)
	case "read":
		g, err := store.Load(db)
		if err != nil {
			return err
		}
		for _, seg := range g.Segments() {
			fmt.Printf("%s", seg)
			if seg.Switch != nil {
				fmt.Printf(" [%s]", seg.Switch.State())
			}
			fmt.Println()
		}
		for _, p := range g.Paths() {
			fmt.Println(p)
		}
		return nil
	default:
		return fmt.Errorf("unknown mode %q", mode)
	}
}
