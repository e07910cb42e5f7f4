package model

import (
	"sort"
	"strings"

	"github.com/HelenLiGit/POT/pkg/errors"
)

// Params はハイパーパラメータ名から値へのマップ
type Params map[string]interface{}

// Names はパラメータ名をソートして返す
func (p Params) Names() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParamsProvider はscikit-learn互換のパラメータ取得/設定のインターフェース。
// 各推定器は自分のパラメータを明示的に列挙・設定する（リフレクション不使用）。
type ParamsProvider interface {
	// GetParams は推定器のハイパーパラメータを取得する。
	// deep=true の場合、ネストした推定器のパラメータを
	// "component__param" 形式のキーで展開して含める。
	GetParams(deep bool) Params

	// SetParam は単一のパラメータを名前で設定する。
	// 未知の名前にはValidationErrorを返す。
	SetParam(name string, value interface{}) error
}

// nestedSep はネストしたパラメータキーの区切り（sklearnの "component__param" 規約）
const nestedSep = "__"

// ExpandNested はトップレベルのパラメータマップに対し、ParamsProviderを
// 実装する値のパラメータを "component__param" 形式で展開して追加した
// 新しいマップを返す。GetParams(true) の実装から呼ぶ。
func ExpandNested(shallow Params) Params {
	out := make(Params, len(shallow))
	for name, value := range shallow {
		out[name] = value
		sub, ok := value.(ParamsProvider)
		if !ok {
			continue
		}
		for subName, subValue := range sub.GetParams(true) {
			out[name+nestedSep+subName] = subValue
		}
	}
	return out
}

// SetParams は複数のパラメータをまとめて設定する。
// "component__param" 形式のキーはネストしたParamsProviderに委譲される。
// パイプラインのように推定器を内包する推定器の各要素を個別に更新できる。
func SetParams(p ParamsProvider, params Params) error {
	if len(params) == 0 {
		return nil
	}
	valid := p.GetParams(false)
	for _, key := range params.Names() {
		value := params[key]
		name, subName, nested := strings.Cut(key, nestedSep)
		if !nested {
			if _, ok := valid[key]; !ok {
				return errors.NewValidationError(key, "invalid parameter for estimator. Check the list of available parameters with GetParams()", value)
			}
			if err := p.SetParam(key, value); err != nil {
				return err
			}
			continue
		}

		// ネストしたパラメータはサブ推定器に委譲する
		obj, ok := valid[name]
		if !ok {
			return errors.NewValidationError(key, "invalid parameter for estimator. Check the list of available parameters with GetParams()", value)
		}
		sub, ok := obj.(ParamsProvider)
		if !ok {
			return errors.NewValidationError(key, "parameter does not support nested assignment", value)
		}
		if err := SetParams(sub, Params{subName: value}); err != nil {
			return err
		}
	}
	return nil
}
