package config

import (
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
)

const (
	defaultConfigRelPath = "configs/conf.yml"
	envPrefix            = "DEMO"
	dotEnvFile           = ".env"
)

var (
	current      atomic.Pointer[Config]
	mu           sync.Mutex
	listeners    []func(Config)
	errListeners []func(path string, err error)
)

// Get 返回当前配置快照；未加载时返回默认值。
func Get() Config {
	if c := current.Load(); c != nil {
		return *c
	}
	return Defaults()
}

// OnChange 注册配置热更新回调（仅在文件变更且新配置校验通过时触发）。
func OnChange(fn func(Config)) {
	if fn == nil {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	listeners = append(listeners, fn)
}

// OnReloadError 注册热更新失败回调（新配置不合法时旧配置保持不变）。
func OnReloadError(fn func(path string, err error)) {
	if fn == nil {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	errListeners = append(errListeners, fn)
}

// Load 加载配置：
// 1) 传入 cfgName（相对/绝对路径）则优先使用，文件不存在视为错误；
// 2) 否则从当前目录开始向上查找 `configs/conf.yml`，找不到则只使用默认值 + 环境变量。
func Load(cfgName string) (Config, error) {
	curDir, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	path := ""
	if cfgName != "" {
		path = cfgName
		if !filepath.IsAbs(path) {
			path = filepath.Join(curDir, cfgName)
		}
		if !fileExist(path) {
			return Config{}, errConfig("config file not exist", nil).WithData("path", path)
		}
	} else {
		path = findConfigUpward(curDir)
	}

	c, err := load(path)
	if err != nil {
		return Config{}, err
	}
	current.Store(&c)
	return c, nil
}

func findConfigUpward(startDir string) string {
	dir := startDir
	for {
		candidate := filepath.Join(dir, defaultConfigRelPath)
		if fileExist(candidate) {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func notify(c Config) {
	current.Store(&c)
	mu.Lock()
	fns := slices.Clone(listeners)
	mu.Unlock()
	for _, fn := range fns {
		fn(c)
	}
}

func notifyError(path string, err error) {
	mu.Lock()
	fns := slices.Clone(errListeners)
	mu.Unlock()
	for _, fn := range fns {
		fn(path, err)
	}
}

func fileExist(fileName string) bool {
	_, err := os.Stat(fileName)
	return err == nil
}
