// Package tabs 页面标签切换：任意时刻恰好一个标签与一个面板处于激活状态
package tabs

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrUnknownTab = errors.New("unknown tab")
	ErrNoTabs     = errors.New("no tabs configured")
)

// Tab 一个标签按钮及其对应面板；Key 同时是按钮的 data-tab 与面板 id
type Tab struct {
	Key   string `yaml:"key" json:"key"`
	Label string `yaml:"label" json:"label"`
}

// Control 渲染用的标签按钮状态
type Control struct {
	Key    string
	Label  string
	Active bool
}

// Panel 渲染用的面板状态
type Panel struct {
	ID     string
	Active bool
}

type Controller struct {
	mu     sync.RWMutex
	tabs   []Tab
	active string
}

// New 启动时校验配置：key 非空且唯一（按钮与面板一一对应），第一个标签默认激活
func New(tabs []Tab) (*Controller, error) {
	if len(tabs) == 0 {
		return nil, ErrNoTabs
	}
	seen := make(map[string]struct{}, len(tabs))
	for i, t := range tabs {
		if t.Key == "" {
			return nil, fmt.Errorf("tab %d: empty key", i)
		}
		if _, dup := seen[t.Key]; dup {
			return nil, fmt.Errorf("tab %q: duplicate key", t.Key)
		}
		seen[t.Key] = struct{}{}
	}
	cp := make([]Tab, len(tabs))
	copy(cp, tabs)
	return &Controller{tabs: cp, active: cp[0].Key}, nil
}

// Activate 先全部取消激活，再激活 key 对应的按钮与面板；未知 key 不改变状态
func (c *Controller) Activate(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range c.tabs {
		if t.Key == key {
			c.active = key
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownTab, key)
}

func (c *Controller) Active() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.active
}

// View 返回所有按钮与面板的激活状态
func (c *Controller) View() ([]Control, []Panel) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	controls := make([]Control, len(c.tabs))
	panels := make([]Panel, len(c.tabs))
	for i, t := range c.tabs {
		on := t.Key == c.active
		controls[i] = Control{Key: t.Key, Label: t.Label, Active: on}
		panels[i] = Panel{ID: t.Key, Active: on}
	}
	return controls, panels
}

// DefaultTabs 対象者詳細ページの標準構成
func DefaultTabs() []Tab {
	return []Tab{
		{Key: "kihon", Label: "基本情報"},
		{Key: "kiroku", Label: "支援経過記録"},
		{Key: "shintai", Label: "身体状況"},
		{Key: "dasc21", Label: "DASC-21"},
		{Key: "dbd13", Label: "DBD-13"},
		{Key: "visits", Label: "訪問記録"},
	}
}
