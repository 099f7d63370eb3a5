package ssm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/smithy-go"
)

// ErrorKind はパラメータ取得失敗の種別
type ErrorKind string

const (
	KindTransport     ErrorKind = "transport"
	KindAuthorization ErrorKind = "authorization"
	KindCanceled      ErrorKind = "canceled"
)

// errors.Is で種別を判定するための番兵エラー
var (
	ErrTransport     = errors.New("parameter store transport error")
	ErrAuthorization = errors.New("parameter store authorization error")
	ErrCanceled      = errors.New("parameter store request canceled")
)

// 権限・認証情報に起因するとみなすAPIエラーコード
var authorizationErrorCodes = map[string]struct{}{
	"AccessDenied":                {},
	"AccessDeniedException":       {},
	"UnauthorizedOperation":       {},
	"UnrecognizedClientException": {},
	"InvalidClientTokenId":        {},
	"ExpiredToken":                {},
	"ExpiredTokenException":       {},
	"InvalidSignatureException":   {},
	"SignatureDoesNotMatch":       {},
	"MissingAuthenticationToken":  {},
	"IncompleteSignature":         {},
	"NotAuthorized":               {},
	"AuthFailure":                 {},
	"KMSAccessDeniedException":    {},
	"RequestExpired":              {},
	"InvalidAccessKeyId":          {},
}

// FetchError はあるパスのパラメータ取得に失敗したことを表す
type FetchError struct {
	Path string
	Kind ErrorKind
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("パス %s のパラメータ取得に失敗 (%s): %v", e.Path, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is は種別に対応する番兵エラーとの比較を可能にする
func (e *FetchError) Is(target error) bool {
	switch target {
	case ErrTransport:
		return e.Kind == KindTransport
	case ErrAuthorization:
		return e.Kind == KindAuthorization
	case ErrCanceled:
		return e.Kind == KindCanceled
	}
	return false
}

// KindOf はerrに含まれるFetchErrorの種別を返す（FetchErrorでなければ空文字）
func KindOf(err error) ErrorKind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}

// newFetchError はSDKのエラーを種別付きのFetchErrorに変換する
func newFetchError(path string, err error) *FetchError {
	return &FetchError{Path: path, Kind: classify(err), Err: err}
}

func classify(err error) ErrorKind {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return KindCanceled
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		if _, ok := authorizationErrorCodes[apiErr.ErrorCode()]; ok {
			return KindAuthorization
		}
	}

	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		switch respErr.HTTPStatusCode() {
		case http.StatusUnauthorized, http.StatusForbidden:
			return KindAuthorization
		}
	}

	return KindTransport
}
