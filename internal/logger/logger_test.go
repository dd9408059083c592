package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// TestParseLevel 测试日志级别解析
func TestParseLevel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected slog.Level
	}{
		{"debug", "debug", slog.LevelDebug},
		{"info", "info", slog.LevelInfo},
		{"warn", "warn", slog.LevelWarn},
		{"error", "error", slog.LevelError},
		{"大写", "WARN", slog.LevelWarn},
		{"未知级别默认info", "unknown", slog.LevelInfo},
		{"空字符串默认info", "", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseLevel(tt.input)
			if got != tt.expected {
				t.Errorf("parseLevel(%q) = %v, 期望 %v", tt.input, got, tt.expected)
			}
		})
	}
}

// TestLevelTag 测试日志级别标签
func TestLevelTag(t *testing.T) {
	tests := []struct {
		name     string
		level    slog.Level
		expected string
	}{
		{"error", slog.LevelError, "ERROR"},
		{"warn", slog.LevelWarn, "WARN "},
		{"info", slog.LevelInfo, "INFO "},
		{"debug", slog.LevelDebug, "DEBUG"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := levelTag(tt.level)
			if got != tt.expected {
				t.Errorf("levelTag(%v) = %q, 期望 %q", tt.level, got, tt.expected)
			}
		})
	}
}

// TestFormatAttr 测试属性格式化
func TestFormatAttr(t *testing.T) {
	tests := []struct {
		name     string
		group    string
		attr     slog.Attr
		expected string
	}{
		{
			name:     "无分组",
			group:    "",
			attr:     slog.String("outcome", "slid"),
			expected: "  outcome=slid",
		},
		{
			name:     "有分组",
			group:    "player",
			attr:     slog.String("outcome", "blocked"),
			expected: "  player.outcome=blocked",
		},
		{
			name:     "整数值",
			group:    "",
			attr:     slog.Int("steps", 5),
			expected: "  steps=5",
		},
		{
			name:     "浮点数保留三位",
			group:    "",
			attr:     slog.Float64("depth", 0.123456),
			expected: "  depth=0.123",
		},
		{
			name:     "向量",
			group:    "",
			attr:     Vec("eye", mgl64.Vec3{0, 1.8, -0.25}),
			expected: "  eye=(0.000, 1.800, -0.250)",
		},
		{
			name:     "嵌套组属性",
			group:    "",
			attr:     slog.Group("hit", slog.String("obstacle", "wall-north"), slog.Int("damage", 10)),
			expected: "  hit.obstacle=wall-north  hit.damage=10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatAttr(tt.group, tt.attr)
			if got != tt.expected {
				t.Errorf("formatAttr(%q, %v) = %q, 期望 %q", tt.group, tt.attr, got, tt.expected)
			}
		})
	}
}

// TestConsoleHandlerEnabled 测试 consoleHandler 的级别过滤
func TestConsoleHandlerEnabled(t *testing.T) {
	h := &consoleHandler{level: slog.LevelInfo}

	if !h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("Info 级别应该被启用")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("Error 级别应该被启用")
	}
	if h.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("Debug 级别不应该被启用")
	}
}

// TestConsoleHandlerHandle 测试 consoleHandler 的日志输出
func TestConsoleHandlerHandle(t *testing.T) {
	var buf bytes.Buffer
	h := &consoleHandler{w: &buf, level: slog.LevelDebug}

	record := slog.NewRecord(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC), slog.LevelInfo, "player slid", 0)
	record.AddAttrs(Vec("normal", mgl64.Vec3{0, 0, 1}))

	err := h.Handle(context.Background(), record)
	if err != nil {
		t.Fatalf("Handle() 返回错误: %v", err)
	}

	output := buf.String()
	want := "12:00:00 INFO  player slid  normal=(0.000, 0.000, 1.000)\n"
	if output != want {
		t.Errorf("输出 = %q, 期望 %q", output, want)
	}
}

// TestConsoleHandlerWithAttrs 测试 WithAttrs 创建新 handler
func TestConsoleHandlerWithAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := &consoleHandler{w: &buf, level: slog.LevelDebug}

	h2 := h.WithAttrs([]slog.Attr{slog.String("component", "sim")})

	// 原始 handler 不应该受影响
	if len(h.attrs) != 0 {
		t.Error("原始 handler 的 attrs 不应该被修改")
	}

	record := slog.NewRecord(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC), slog.LevelInfo, "test", 0)
	if err := h2.Handle(context.Background(), record); err != nil {
		t.Fatalf("Handle() 返回错误: %v", err)
	}

	if !strings.Contains(buf.String(), "component=sim") {
		t.Errorf("输出应包含预设属性, 实际: %q", buf.String())
	}
}

// TestConsoleHandlerWithNestedGroup 测试嵌套分组
func TestConsoleHandlerWithNestedGroup(t *testing.T) {
	var buf bytes.Buffer
	h := &consoleHandler{w: &buf, level: slog.LevelDebug}

	h2 := h.WithGroup("player").WithGroup("weapon")

	record := slog.NewRecord(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC), slog.LevelInfo, "test", 0)
	record.AddAttrs(slog.Int("damage", 10))
	if err := h2.Handle(context.Background(), record); err != nil {
		t.Fatalf("Handle() 返回错误: %v", err)
	}

	if !strings.Contains(buf.String(), "player.weapon.damage=10") {
		t.Errorf("输出应包含嵌套分组前缀, 实际: %q", buf.String())
	}
}

// TestConsoleHandlerConcurrent 并发写入时每行保持完整
func TestConsoleHandlerConcurrent(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(newHandler(Config{Level: "debug", Format: "console", Output: &buf}))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			log.With("worker", i).Info("tick", Vec("eye", mgl64.Vec3{float64(i), 1.8, 0}))
		}(i)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 16 {
		t.Fatalf("行数 = %d, 期望 16", len(lines))
	}
	for _, line := range lines {
		if !strings.Contains(line, "INFO  tick") || !strings.Contains(line, "eye=(") {
			t.Errorf("行内容不完整: %q", line)
		}
	}
}

// TestNewHandlerFormats 测试不同格式的 handler 选择
func TestNewHandlerFormats(t *testing.T) {
	var buf bytes.Buffer

	if _, ok := newHandler(Config{Format: "json", Output: &buf}).(*slog.JSONHandler); !ok {
		t.Error("json 格式应创建 JSONHandler")
	}
	if _, ok := newHandler(Config{Format: "text", Output: &buf}).(*slog.TextHandler); !ok {
		t.Error("text 格式应创建 TextHandler")
	}
	for _, format := range []string{"console", ""} {
		if _, ok := newHandler(Config{Format: format, Output: &buf}).(*consoleHandler); !ok {
			t.Errorf("%q 格式应创建 consoleHandler", format)
		}
	}
}

// TestVecJSON JSON 输出中向量为字符串
func TestVecJSON(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(newHandler(Config{Level: "info", Format: "json", Output: &buf}))
	log.Info("spawn", Vec("feet", mgl64.Vec3{1, 0, -2.5}))

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("JSON 解析失败: %v", err)
	}
	if rec["feet"] != "(1.000, 0.000, -2.500)" {
		t.Errorf("feet = %v", rec["feet"])
	}
}
