package storage

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/annel0/terra2d/internal/vec"
	"github.com/annel0/terra2d/internal/world"
	"github.com/annel0/terra2d/internal/world/block"
	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/zstd"
)

const (
	codecMagic   = "T2DC"
	codecVersion = 1
	headerSize   = len(codecMagic) + 1 + 8
)

// chunkPayload тело записи. Ключ клетки - упакованные координаты "x:y".
type chunkPayload struct {
	Index int                      `json:"index"`
	Cells map[string]block.BlockID `json:"cells"`
}

// Codec кодирует сырые данные чанка: заголовок, контрольная сумма xxhash
// несжатого JSON и сам JSON, сжатый zstd. Безопасен для параллельного использования.
type Codec struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// NewCodec создаёт кодек
func NewCodec() (*Codec, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("не удалось создать zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		return nil, fmt.Errorf("не удалось создать zstd decoder: %w", err)
	}
	return &Codec{enc: enc, dec: dec}, nil
}

// Close освобождает ресурсы zstd
func (c *Codec) Close() {
	c.enc.Close()
	c.dec.Close()
}

// Encode сериализует данные чанка index
func (c *Codec) Encode(index int, data world.CellData) ([]byte, error) {
	payload := chunkPayload{
		Index: index,
		Cells: make(map[string]block.BlockID, len(data)),
	}
	for pos, id := range data {
		payload.Cells[cellKey(pos)] = id
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации чанка %d: %w", index, err)
	}
	return c.frame(body), nil
}

// frame дописывает заголовок с контрольной суммой и сжимает тело
func (c *Codec) frame(body []byte) []byte {
	out := make([]byte, headerSize, headerSize+len(body)/4)
	copy(out, codecMagic)
	out[len(codecMagic)] = codecVersion
	binary.BigEndian.PutUint64(out[len(codecMagic)+1:], xxhash.Sum64(body))
	return c.enc.EncodeAll(body, out)
}

// Decode разбирает запись и возвращает индекс чанка и его данные
func (c *Codec) Decode(raw []byte) (int, world.CellData, error) {
	if len(raw) < headerSize || !bytes.Equal(raw[:len(codecMagic)], []byte(codecMagic)) {
		return 0, nil, fmt.Errorf("%w: неверный заголовок", ErrCorruptChunk)
	}
	if v := raw[len(codecMagic)]; v != codecVersion {
		return 0, nil, fmt.Errorf("%w: версия %d не поддерживается", ErrCorruptChunk, v)
	}
	sum := binary.BigEndian.Uint64(raw[len(codecMagic)+1 : headerSize])

	body, err := c.dec.DecodeAll(raw[headerSize:], nil)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrCorruptChunk, err)
	}
	if xxhash.Sum64(body) != sum {
		return 0, nil, fmt.Errorf("%w: контрольная сумма не совпадает", ErrCorruptChunk)
	}

	var payload chunkPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrCorruptChunk, err)
	}

	data := make(world.CellData, len(payload.Cells))
	for key, id := range payload.Cells {
		pos, err := parseCellKey(key)
		if err != nil {
			return 0, nil, err
		}
		data[pos] = id
	}
	return payload.Index, data, nil
}

// decodeIndex разбирает запись и проверяет, что она принадлежит чанку index
func (c *Codec) decodeIndex(index int, raw []byte) (world.CellData, error) {
	got, data, err := c.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("чанк %d: %w", index, err)
	}
	if got != index {
		return nil, fmt.Errorf("%w: запись принадлежит чанку %d, ожидался %d", ErrCorruptChunk, got, index)
	}
	return data, nil
}

func cellKey(pos vec.Vec2) string {
	return strconv.Itoa(pos.X) + ":" + strconv.Itoa(pos.Y)
}

// parseCellKey разбирает ключ "x:y" целиком, лишние символы считаются повреждением
func parseCellKey(key string) (vec.Vec2, error) {
	xs, ys, ok := strings.Cut(key, ":")
	if !ok {
		return vec.Vec2{}, fmt.Errorf("%w: ключ клетки %q без разделителя", ErrCorruptChunk, key)
	}
	x, errX := strconv.Atoi(xs)
	y, errY := strconv.Atoi(ys)
	if errX != nil || errY != nil {
		return vec.Vec2{}, fmt.Errorf("%w: ключ клетки %q", ErrCorruptChunk, key)
	}
	return vec.Vec2{X: x, Y: y}, nil
}
