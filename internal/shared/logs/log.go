package logs

import (
	"os"
	"strings"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"BuildpacksDemo/internal/shared/config"
)

var (
	logger      = zap.NewNop()
	atomicLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

// parseLevel 支持 "debug/info/warn/error/..."（大小写不敏感），解析失败回退到 info。
func parseLevel(s string) zapcore.Level {
	lvl := zapcore.InfoLevel
	if err := lvl.UnmarshalText([]byte(strings.ToLower(s))); err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

// Init 初始化全局 logger。console 始终输出到 stderr，配置了 file_dir 时额外写 JSON 文件。
func Init(appName string, cfg config.LogConfig) error {
	return initWith(appName, cfg, zapcore.Lock(os.Stderr))
}

func initWith(appName string, cfg config.LogConfig, console zapcore.WriteSyncer) error {
	// 1) 级别用 AtomicLevel，配置热更新时通过 SetLevel 调整
	atomicLevel.SetLevel(parseLevel(cfg.Level))

	// 2) 编码器：console 彩色级别便于本地阅读，file 用 JSON 便于采集
	//    2026-10-19T10:00:00.000+0800  INFO  demo.http  access  http_server.go:88
	encoderCfg := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stack",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder, // latency 以毫秒输出
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	consoleCfg := encoderCfg
	consoleCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	consoleEncoder := zapcore.NewConsoleEncoder(consoleCfg)

	fileCfg := encoderCfg
	fileCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	jsonEncoder := zapcore.NewJSONEncoder(fileCfg)

	// 3) 构建 core：
	//    - 不写文件：只有控制台
	//    - 写文件：NewTee 分两路，控制台彩色 + 文件 JSON（lumberjack 切割），避免 ANSI 转义进文件
	core := zapcore.NewCore(consoleEncoder, console, atomicLevel)
	if cfg.FileDir != "" {
		fileWriter := &lumberjack.Logger{
			Filename:   cfg.FileDir,
			MaxSize:    max(1, cfg.MaxSize), // MB，至少 1
			MaxBackups: max(0, cfg.MaxBackups),
			MaxAge:     max(0, cfg.MaxAge), // days
			Compress:   cfg.Compress,
		}
		core = zapcore.NewTee(
			core,
			zapcore.NewCore(jsonEncoder, zapcore.AddSync(fileWriter), atomicLevel),
		)
	}

	// 4) zap 选项：
	//    - AddCaller：每条日志带调用文件:行号
	//    - 开发模式：更适合开发调试；并让 warn 及以上自动带堆栈（方便定位）
	opts := []zap.Option{zap.AddCaller()}
	if cfg.Dev {
		opts = append(opts, zap.Development(), zap.AddStacktrace(zapcore.WarnLevel))
	}

	// 5) 替换全局 logger：旧 logger 先 Sync 刷盘
	_ = logger.Sync()
	logger = zap.New(core, opts...).Named(appName)
	return nil
}

// Logger 返回全局 *zap.Logger（未初始化时为 Nop）。
func Logger() *zap.Logger {
	return logger
}

// SetLevel 动态调整日志级别，供配置热更新使用。
func SetLevel(level string) {
	atomicLevel.SetLevel(parseLevel(level))
}

// Level 返回当前日志级别。
func Level() zapcore.Level {
	return atomicLevel.Level()
}

// Sync 刷盘，进程退出前调用。
func Sync() {
	_ = logger.Sync()
}

// 以下是对全局 logger 的便捷封装，未 Init 时为 Nop。

func Debug(msg string, fields ...zap.Field) {
	logger.Debug(msg, fields...)
}

func Info(msg string, fields ...zap.Field) {
	logger.Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	logger.Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	logger.Error(msg, fields...)
}

// Fatal 输出日志后 os.Exit(1)。
func Fatal(msg string, fields ...zap.Field) {
	logger.Fatal(msg, fields...)
}
