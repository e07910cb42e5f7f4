// Package errors はプロジェクト全体のエラーハンドリングと警告システムを提供します。
// POTの警告・例外システムを構造化されたGoのエラー型として提供します。
package errors

import (
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	グローバル警告ハンドリング
//
// ===========================================================================
var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		// デフォルトのハンドラは標準エラー出力にログを出す
		log.Printf("POT-Warning: %v\n", w)
	}
	// zerologロガー（循環importを避けるため遅延初期化）
	zerologWarnFunc func(warning error)
)

// SetWarningHandler はライブラリ全体の警告ハンドラを設定します。
// これにより、DeprecationWarningなどのカスタム警告の処理方法を制御できます。
//
// 例:
//
//	errors.SetWarningHandler(func(w error) {
//	    // 警告を無視する
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc はzerolog警告関数を設定します（循環importを避けるため）。
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn は警告を発生させます。
// zerologが利用可能な場合は構造化ログとして出力し、そうでなければ従来のハンドラを使用します。
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	// zerologが設定されている場合は優先的に使用
	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}

	// フォールバック: 従来のハンドラ
	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	警告型
//
// ===========================================================================

// DeprecationWarning は非推奨のAPIが呼び出された場合に発生する警告です。
// デコレータによるラップではなく、宣言側の明示的なタグと呼び出し側の
// Deprecated ヘルパで発生させます。
type DeprecationWarning struct {
	Name        string // 非推奨のAPI名
	Alternative string // 推奨される代替API（空でも可）
}

func (w *DeprecationWarning) Error() string {
	if w.Alternative != "" {
		return fmt.Sprintf("%s is deprecated; use %s instead", w.Name, w.Alternative)
	}
	return fmt.Sprintf("%s is deprecated", w.Name)
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *DeprecationWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("name", w.Name).
		Str("alternative", w.Alternative).
		Str("type", "DeprecationWarning")
}

// NewDeprecationWarning は新しいDeprecationWarningを作成します。
func NewDeprecationWarning(name, alternative string) *DeprecationWarning {
	return &DeprecationWarning{Name: name, Alternative: alternative}
}

// Deprecated は非推奨APIのラッパーの先頭で呼び出し、警告を発生させます。
//
// 例:
//
//	func OldKernel(x1, x2 mat.Matrix) (*mat.Dense, error) {
//	    errors.Deprecated("OldKernel", "metrics.Kernel")
//	    return metrics.Kernel(x1, x2, 1.0)
//	}
func Deprecated(name, alternative string) {
	Warn(NewDeprecationWarning(name, alternative))
}

// CheckParams は必須パラメータの欠落を検査します。
// 値がnilのパラメータ名を警告として発生させ、欠落した名前の一覧と
// 全て揃っているかどうかを返します。
func CheckParams(params map[string]interface{}) (missing []string, ok bool) {
	for name, value := range params {
		if value == nil {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	if len(missing) > 0 {
		Warn(Newf("following necessary parameters are missing: %v", missing))
		return missing, false
	}
	return nil, true
}

// ===========================================================================
//
//	構造化されたエラー型
//
// ===========================================================================

// DimensionError は入力データの次元が期待値と異なる場合のエラーです。
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns/features
}

func (e *DimensionError) Error() string {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("pot: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("axis_name", axisName).
		Str("type", "DimensionError")
}

// NewDimensionError は新しいDimensionErrorを作成し、スタックトレースを付与します。
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// ValidationError は入力パラメータの検証に失敗した場合のエラーです。
// `ValueError`よりも具体的なバリデーションロジックの失敗を示します。
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("pot: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError は新しいValidationErrorを作成し、スタックトレースを付与します。
func NewValidationError(param, reason string, value interface{}) error {
	err := &ValidationError{ParamName: param, Reason: reason, Value: value}
	return errors.WithStack(err)
}

// ValueError は引数の値が不適切または不正な場合に発生するエラーです。
// 例えば、負のシグマでカーネル行列を要求した場合など。
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("pot: %s: %s", e.Op, e.Message)
}

// NewValueError は新しいValueErrorを作成し、スタックトレースを付与します。
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// WorkerError は並列マップのワーカーがある入力の処理に失敗した場合の
// エラーです。失敗した入力のインデックスと原因を保持します。
// 最初の失敗が呼び出し全体を中断させます（first failure wins）。
type WorkerError struct {
	Index int   // 失敗した入力の位置
	Err   error // 原因
}

func (e *WorkerError) Error() string {
	return fmt.Sprintf("pot: parallel map: worker failed on input %d: %v", e.Index, e.Err)
}

func (e *WorkerError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *WorkerError) MarshalZerologObject(event *zerolog.Event) {
	event.Int("index", e.Index).
		AnErr("cause", e.Err).
		Str("type", "WorkerError")
}

// NewWorkerError は新しいWorkerErrorを作成し、スタックトレースを付与します。
func NewWorkerError(index int, err error) error {
	workerErr := &WorkerError{Index: index, Err: err}
	return errors.WithStack(workerErr)
}

// ===========================================================================
//
//	cockroachdb/errors ラッパー関数
//
// ===========================================================================

// Is はエラーが特定のターゲットエラーかどうかを判定します。
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As はエラーが特定の型にキャスト可能かどうかを判定します。
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap は既存のエラーをメッセージ付きでラップします。
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf は既存のエラーをフォーマット文字列でラップします。
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New は新しいエラーを作成します。
func New(message string) error {
	return errors.New(message)
}

// Newf は新しいフォーマット済みエラーを作成します。
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack はエラーにスタックトレースを付与します。
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	共通エラー変数
//
// ===========================================================================

var (
	// ErrEmptyData は空のデータが渡された場合のエラーです。
	ErrEmptyData = New("empty data")

	// ErrSingularMatrix は特異行列の場合のエラーです。
	ErrSingularMatrix = New("singular matrix")
)
