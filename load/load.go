package load

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"tfc/types"

	"gopkg.in/yaml.v3"
)

// File 加载 YAML 问题文件，未给出的字段取默认值
func File(filename string) (types.Problem, error) {
	file, err := os.Open(filename)
	if err != nil {
		return types.Problem{}, err
	}
	defer file.Close()
	p, err := Reader(file)
	if err != nil {
		return types.Problem{}, fmt.Errorf("%s: %w", filename, err)
	}
	return p, nil
}

// String 从字符串加载问题配置
func String(s string) (types.Problem, error) {
	return Reader(strings.NewReader(s))
}

// Reader 解析问题配置，未知字段报错
func Reader(r io.Reader) (types.Problem, error) {
	p := types.DefaultProblem()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		if errors.Is(err, types.ErrConfiguration) {
			return types.Problem{}, err
		}
		return types.Problem{}, fmt.Errorf("%w: %w", types.ErrConfiguration, err)
	}
	if err := p.Validate(); err != nil {
		return types.Problem{}, err
	}
	return p, nil
}

// Export 导出问题配置
func Export(w io.Writer, p types.Problem) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}
