//go:build release

package logger

// DefaultLevel はリリースビルド（-tags release）でのデフォルトしきい値
const DefaultLevel = LevelError
