package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"BuildpacksDemo/modules/kit/errx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func writeConf(t *testing.T, dir, body string) string {
	t.Helper()
	p := filepath.Join(dir, defaultConfigRelPath)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoad_无配置文件使用默认值(t *testing.T) {
	chdir(t, t.TempDir())

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 8080, c.HTTPServer.Port)
	assert.Equal(t, "0.0.0.0:8080", c.HTTPServer.Addr())
	assert.Equal(t, "release", c.HTTPServer.Mode)
	assert.Equal(t, 15*time.Second, c.HTTPServer.WriteTimeout)
	assert.Empty(t, c.Metrics.Addr)
	assert.Equal(t, c, Get())
}

func TestLoad_向上查找配置文件(t *testing.T) {
	root := t.TempDir()
	writeConf(t, root, "httpserver:\n  port: 9000\n  read_timeout: 3s\nlog:\n  level: debug\n")
	sub := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	chdir(t, sub)

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 9000, c.HTTPServer.Port)
	assert.Equal(t, 3*time.Second, c.HTTPServer.ReadTimeout)
	assert.Equal(t, "debug", c.Log.Level)
	assert.Equal(t, 60*time.Second, c.HTTPServer.IdleTimeout, "未配置的字段保留默认值")
}

func TestLoad_环境变量优先于文件(t *testing.T) {
	root := t.TempDir()
	writeConf(t, root, "httpserver:\n  port: 9000\n")
	chdir(t, root)
	t.Setenv("DEMO_HTTPSERVER_PORT", "9191")
	t.Setenv("DEMO_HTTPSERVER_HOST", "127.0.0.1")

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9191", c.HTTPServer.Addr())
}

func TestLoad_dotenv不覆盖已有环境变量(t *testing.T) {
	root := t.TempDir()
	chdir(t, root)
	require.NoError(t, os.WriteFile(filepath.Join(root, dotEnvFile), []byte("DEMO_LOG_LEVEL=warn\nDEMO_HTTPSERVER_MODE=debug\n"), 0o644))
	t.Setenv("DEMO_HTTPSERVER_MODE", "test")
	t.Setenv("DEMO_LOG_LEVEL", "")
	os.Unsetenv("DEMO_LOG_LEVEL")

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "warn", c.Log.Level)
	assert.Equal(t, "test", c.HTTPServer.Mode)
}

func TestLoad_指定路径不存在返回错误(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := Load("missing.yml")
	require.Error(t, err)
	assert.ErrorIs(t, err, errx.ErrConfigInvalid)
}

func TestLoad_端口越界返回配置错误(t *testing.T) {
	root := t.TempDir()
	p := writeConf(t, root, "httpserver:\n  port: 70000\n")
	chdir(t, root)

	_, err := Load(p)
	require.Error(t, err)
	assert.ErrorIs(t, err, errx.ErrConfigInvalid)
}

func TestValidate(t *testing.T) {
	ok := Defaults()
	require.NoError(t, Validate(ok))

	badMode := Defaults()
	badMode.HTTPServer.Mode = "prod"
	assert.ErrorIs(t, Validate(badMode), errx.ErrConfigInvalid)

	badTimeout := Defaults()
	badTimeout.HTTPServer.ReadTimeout = -time.Second
	assert.ErrorIs(t, Validate(badTimeout), errx.ErrConfigInvalid)

	badMetrics := Defaults()
	badMetrics.Metrics.Addr = ":9100"
	badMetrics.Metrics.Path = "metrics"
	assert.ErrorIs(t, Validate(badMetrics), errx.ErrConfigInvalid)
}

func TestLoad_文件变更触发热更新(t *testing.T) {
	root := t.TempDir()
	p := writeConf(t, root, "log:\n  level: info\n")
	chdir(t, root)

	_, err := Load(p)
	require.NoError(t, err)

	changed := make(chan Config, 16)
	OnChange(func(c Config) {
		select {
		case changed <- c:
		default:
		}
	})

	require.NoError(t, os.WriteFile(p, []byte("log:\n  level: error\n"), 0o644))

	// 一次写文件可能触发多次事件（先截断再写入），等到目标值为止。
	deadline := time.After(5 * time.Second)
	for {
		select {
		case c := <-changed:
			if c.Log.Level != "error" {
				continue
			}
			assert.Equal(t, "error", Get().Log.Level)
			return
		case <-deadline:
			t.Fatal("等待配置热更新超时")
		}
	}
}

func TestLoad_热更新校验失败保留旧配置并回调错误(t *testing.T) {
	root := t.TempDir()
	p := writeConf(t, root, "httpserver:\n  port: 9000\n")
	chdir(t, root)

	_, err := Load(p)
	require.NoError(t, err)

	failed := make(chan error, 16)
	OnReloadError(func(path string, err error) {
		select {
		case failed <- err:
		default:
		}
	})

	require.NoError(t, os.WriteFile(p, []byte("httpserver:\n  port: 70000\n"), 0o644))

	select {
	case err := <-failed:
		assert.ErrorIs(t, err, errx.ErrConfigInvalid)
		assert.NotEqual(t, 70000, Get().HTTPServer.Port)
	case <-time.After(5 * time.Second):
		t.Fatal("等待热更新失败回调超时")
	}
}
