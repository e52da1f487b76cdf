package main

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/rlgl"
)

// maxConfigSize bounds the config file read from disk.
const maxConfigSize = 1 << 20

// Config is the demo configuration. Zero batch fields keep the library
// defaults.
type Config struct {
	Device string `yaml:"device"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Output string `yaml:"output"`

	Batch struct {
		MaxElements   int   `yaml:"max_elements"`
		Buffers       int   `yaml:"buffers"`
		MaxDrawCalls  int   `yaml:"max_draw_calls"`
		StackDepth    int   `yaml:"stack_depth"`
		ImplicitFlush *bool `yaml:"implicit_flush"` // nil keeps the default
	} `yaml:"batch"`

	Scene struct {
		Background    [4]uint8 `yaml:"background"`
		RenderTexture bool     `yaml:"render_texture"` // draw the shapes offscreen first
		DepthBits     int      `yaml:"depth_bits"`
	} `yaml:"scene"`
}

func defaultConfig() Config {
	c := Config{
		Device: "native",
		Width:  800,
		Height: 450,
		Output: "rlgldemo.png",
	}
	c.Scene.Background = [4]uint8{245, 245, 245, 255}
	c.Scene.DepthBits = 24
	return c
}

// loadConfig reads path over the defaults. A missing file is not an error.
func loadConfig(path string) (Config, error) {
	c := defaultConfig()
	if path == "" {
		return c, nil
	}
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return c, fmt.Errorf("stat config: %w", err)
	}
	if info.Size() > maxConfigSize {
		return c, fmt.Errorf("config %s is %d bytes, limit %d", path, info.Size(), maxConfigSize)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("parse config %s: %w", path, err)
	}
	return c, c.validate()
}

func (c Config) validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid size %dx%d", c.Width, c.Height)
	}
	if c.Device == "" {
		return errors.New("device name is empty")
	}
	return nil
}

// options maps the batch section onto context options.
func (c Config) options() []rlgl.Option {
	var opts []rlgl.Option
	if c.Batch.MaxElements > 0 {
		opts = append(opts, rlgl.WithMaxBatchElements(c.Batch.MaxElements))
	}
	if c.Batch.Buffers > 0 {
		opts = append(opts, rlgl.WithBufferCount(c.Batch.Buffers))
	}
	if c.Batch.MaxDrawCalls > 0 {
		opts = append(opts, rlgl.WithMaxDrawCalls(c.Batch.MaxDrawCalls))
	}
	if c.Batch.StackDepth > 0 {
		opts = append(opts, rlgl.WithMatrixStackDepth(c.Batch.StackDepth))
	}
	if c.Batch.ImplicitFlush != nil {
		opts = append(opts, rlgl.WithImplicitFlush(*c.Batch.ImplicitFlush))
	}
	return opts
}
