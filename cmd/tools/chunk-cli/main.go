package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/annel0/terra2d/internal/storage"
	"github.com/annel0/terra2d/internal/vec"
	"github.com/annel0/terra2d/internal/world"
	"github.com/annel0/terra2d/internal/world/block"
	"github.com/dustin/go-humanize"
)

func main() {
	var (
		dataDir = flag.String("data", "data", "World data directory")
		command = flag.String("cmd", "list", "Command: list, dump, verify")
		index   = flag.Int("index", 0, "Chunk index for dump")
		rows    = flag.Int("rows", 0, "Dump only the top N rows (0 = all)")
	)
	flag.Parse()

	meta, err := storage.ReadMeta(*dataDir)
	if err != nil {
		log.Fatalf("❌ Failed to read world metadata: %v", err)
	}

	store, err := storage.Open(meta.Backend, *dataDir)
	if err != nil {
		log.Fatalf("❌ Failed to open storage: %v", err)
	}
	defer store.Close()

	switch *command {
	case "list":
		err = listChunks(store, meta)
	case "dump":
		err = dumpChunk(store, *index, *rows)
	case "verify":
		err = verifyChunks(store, meta)
	default:
		err = fmt.Errorf("unknown command: %s", *command)
	}
	if err != nil {
		store.Close()
		log.Fatalf("❌ %s failed: %v", *command, err)
	}
}

func listChunks(store storage.ChunkStore, meta storage.WorldMeta) error {
	fmt.Printf("🌍 %s (%s) seed=%d layout=%s backend=%s lazy=%v\n",
		meta.Name, meta.ID, meta.Seed, meta.Layout, meta.Backend, meta.Lazy)
	fmt.Printf("%-6s %-6s %-6s %-5s %s\n", "INDEX", "CELLS", "SOLID", "ORES", "SIZE")

	fileStore, _ := store.(*storage.FileStore)
	var total uint64
	for i := meta.MinIndex; i <= meta.MaxIndex; i++ {
		data, err := store.Load(i)
		if errors.Is(err, storage.ErrChunkNotFound) {
			fmt.Printf("%-6d %s\n", i, "-")
			continue
		}
		if err != nil {
			return err
		}

		solid, ores := 0, 0
		for _, id := range data {
			if block.IsSolid(id) {
				solid++
			}
			if block.IsOre(id) {
				ores++
			}
		}

		size := "-"
		if fileStore != nil {
			n, err := fileStore.Size(i)
			if err != nil {
				return err
			}
			total += uint64(n)
			size = humanize.Bytes(uint64(n))
		}
		fmt.Printf("%-6d %-6d %-6d %-5d %s\n", i, len(data), solid, ores, size)
	}
	if fileStore != nil {
		fmt.Printf("📦 Total on disk: %s\n", humanize.Bytes(total))
	}
	return nil
}

// dumpChunk печатает чанк символами блоков, верхняя строка первой
func dumpChunk(store storage.ChunkStore, index, limit int) error {
	data, err := store.Load(index)
	if err != nil {
		return err
	}

	ys := make(map[int]struct{})
	for pos := range data {
		ys[pos.Y] = struct{}{}
	}
	order := make([]int, 0, len(ys))
	for y := range ys {
		order = append(order, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(order)))
	if limit > 0 && limit < len(order) {
		order = order[:limit]
	}

	fmt.Printf("Chunk %d, x=%.0f px, %d cells\n", index, world.ChunkWorldX(index), len(data))
	var sb strings.Builder
	for _, y := range order {
		sb.Reset()
		for x := 0; x < world.ChunkWidth; x++ {
			sb.WriteRune(glyph(data, vec.Vec2{X: x, Y: y}))
		}
		fmt.Printf("%4d %s\n", y, sb.String())
	}
	return nil
}

func glyph(data world.CellData, pos vec.Vec2) rune {
	id, ok := data[pos]
	if !ok {
		return ' '
	}
	if def, ok := block.Get(id); ok {
		return def.Glyph
	}
	return '?'
}

// verifyChunks декодирует все чанки и проверяет, что материалы известны
func verifyChunks(store storage.ChunkStore, meta storage.WorldMeta) error {
	broken := 0
	for i := meta.MinIndex; i <= meta.MaxIndex; i++ {
		data, err := store.Load(i)
		if errors.Is(err, storage.ErrChunkNotFound) && meta.Lazy {
			continue
		}
		if err != nil {
			fmt.Printf("❌ chunk %d: %v\n", i, err)
			broken++
			continue
		}
		for pos, id := range data {
			if !block.IsValidBlockID(id) {
				fmt.Printf("❌ chunk %d: unknown block %d at %v\n", i, id, pos)
				broken++
				break
			}
			if pos.X < 0 || pos.X >= world.ChunkWidth {
				fmt.Printf("❌ chunk %d: cell %v outside chunk\n", i, pos)
				broken++
				break
			}
		}
	}
	if broken > 0 {
		return fmt.Errorf("%d broken chunks", broken)
	}
	fmt.Printf("✅ %d chunks verified\n", meta.MaxIndex-meta.MinIndex+1)
	return nil
}
