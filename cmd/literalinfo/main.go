// literalinfo prints information about tensor literals of the given shapes: their number of elements,
// storage size and structural hash.
//
// Shapes are given in the short form "f32[2,3]" or as printed by Shape.String, e.g. "(Float32)[2 3]".
//
// With -dedup, a zero-valued literal is created for each shape and interned in a literalcache.Cache,
// and the cache statistics are reported.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/gomlx/lazytensors/pkg/core/literals"
	"github.com/gomlx/lazytensors/pkg/core/literals/literalcache"
	"github.com/gomlx/lazytensors/pkg/core/shapes"
	"github.com/janpfeifer/must"
	"k8s.io/klog/v2"
)

var (
	flagDedup = flag.Bool("dedup", false, "Intern a zero-valued literal of each shape in a cache, "+
		"and report the de-duplication statistics.")
	flagPlain = flag.Bool("plain", false, "Print plain tab-separated values, without table styling.")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		klog.Errorf("Missing shapes to describe. See 'literalinfo -help'")
		os.Exit(1)
	}
	shapesList := must.M1(parseShapes(args))
	report(shapesList)
}

// parseShapes parses each of the arguments as a shape. Tuples are not accepted.
func parseShapes(args []string) ([]shapes.Shape, error) {
	shapesList := make([]shapes.Shape, 0, len(args))
	for _, arg := range args {
		shape, err := shapes.FromString(arg)
		if err != nil {
			return nil, err
		}
		shapesList = append(shapesList, shape)
	}
	return shapesList, nil
}

var (
	headerRowStyle = lipgloss.NewStyle().Reverse(true).
			Padding(0, 2, 0, 2).Align(lipgloss.Center)

	oddRowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFF")).
			PaddingLeft(1).PaddingRight(1)
	evenRowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#999")).
			PaddingLeft(1).PaddingRight(1)

	titleStyle = lipgloss.NewStyle().Bold(true).Padding(1, 4, 1, 4)
)

func newTable(headers ...string) *lgtable.Table {
	return lgtable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("99"))).
		Headers(headers...).
		StyleFunc(func(row, col int) (s lipgloss.Style) {
			switch {
			case row == lgtable.HeaderRow:
				return headerRowStyle
			case row%2 == 0:
				s = evenRowStyle
			default:
				s = oddRowStyle
			}
			if col == 0 {
				s = s.Align(lipgloss.Left)
			} else {
				s = s.Align(lipgloss.Right)
			}
			return
		})
}

func printTable(title string, headers []string, rows [][]string) {
	if *flagPlain {
		printPlain(headers, rows)
		return
	}
	fmt.Println(titleStyle.Render(title))
	table := newTable(headers...)
	for _, row := range rows {
		table.Row(row...)
	}
	fmt.Println(table.Render())
}

func printPlain(headers []string, rows [][]string) {
	for _, row := range append([][]string{headers}, rows...) {
		for ii, cell := range row {
			if ii > 0 {
				fmt.Print("\t")
			}
			fmt.Print(cell)
		}
		fmt.Println()
	}
}

var literalHeaders = []string{"Shape", "Rank", "Elements", "Bytes", "Hash"}

// literalRow returns the table row describing the literal.
func literalRow(l *literals.Literal) []string {
	shape := l.Shape()
	return []string{
		shape.String(),
		fmt.Sprintf("%d", shape.Rank()),
		humanize.Comma(int64(shape.Size())),
		humanize.Bytes(uint64(shape.Memory())),
		fmt.Sprintf("%016x", l.Hash()),
	}
}

var statsHeaders = []string{"Stat", "Value"}

// statsRows returns the table rows with the cache statistics.
func statsRows(stats literalcache.Stats) [][]string {
	return [][]string{
		{"hits", humanize.Comma(int64(stats.Hits))},
		{"misses", humanize.Comma(int64(stats.Misses))},
		{"collisions", humanize.Comma(int64(stats.Collisions))},
		{"buckets", humanize.Comma(int64(stats.Buckets))},
		{"entries", humanize.Comma(int64(stats.Entries))},
	}
}

// zeroLiteral creates a literal of the given shape with all its contents set to zero.
func zeroLiteral(shape shapes.Shape) *literals.Literal {
	l := literals.New(shape)
	must.M(l.Value().MutableBytes(func(data []byte) {
		clear(data)
	}))
	return l
}

func report(shapesList []shapes.Shape) {
	var cache *literalcache.Cache
	if *flagDedup {
		cache = literalcache.New()
	}
	rows := make([][]string, 0, len(shapesList))
	for _, shape := range shapesList {
		l := zeroLiteral(shape)
		rows = append(rows, literalRow(l))
		if cache == nil {
			l.Finalize()
			continue
		}
		entry, found := cache.Intern(l)
		if found {
			klog.V(1).Infof("%s de-duplicated to entry %s", shape, entry.ID)
			l.Finalize()
		}
	}
	printTable("Literals", literalHeaders, rows)
	if cache != nil {
		printTable("De-duplication", statsHeaders, statsRows(cache.Stats()))
		cache.Reset(true)
	}
}
