//go:build !release

package logger

// DefaultLevel は開発ビルドでのデフォルトしきい値
const DefaultLevel = LevelInfo
