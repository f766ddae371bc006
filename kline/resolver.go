package kline

import "strings"

type Market string

const (
	MarketSH Market = "SH"
	MarketSZ Market = "SZ"
)

const (
	codeWidth = 6

	GzipSuffix  = ".txt.gz"
	AssetSuffix = ".txt.json"
)

// PadCode 左侧补 '0' 到 6 位，超过 6 位的代码原样返回
func PadCode(code string) string {
	if len(code) >= codeWidth {
		return code
	}
	return strings.Repeat("0", codeWidth-len(code)) + code
}

// MarketOf 根据补齐后的代码判断市场: 6 开头 (含 688 科创板) 和 5 开头 (基金) 为上海，其余为深圳
func MarketOf(padded string) Market {
	switch {
	case strings.HasPrefix(padded, "6"), strings.HasPrefix(padded, "5"):
		return MarketSH
	default:
		return MarketSZ
	}
}

// ResolveFileKey maps a raw stock code to its storage key, e.g. "1" -> "SZ000001".
func ResolveFileKey(code string) string {
	padded := PadCode(code)
	return string(MarketOf(padded)) + padded
}

func GzipFileName(code string) string {
	return ResolveFileKey(code) + GzipSuffix
}

func AssetFileName(code string) string {
	return ResolveFileKey(code) + AssetSuffix
}

// KeyFromFileName strips a known source suffix. ok is false for any other file.
func KeyFromFileName(name string) (key string, ok bool) {
	for _, suffix := range []string{GzipSuffix, AssetSuffix} {
		if strings.HasSuffix(name, suffix) {
			return strings.TrimSuffix(name, suffix), true
		}
	}
	return name, false
}
