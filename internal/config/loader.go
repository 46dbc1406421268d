package config

import (
	"fmt"
	"os"
	"strings"

	apperrors "github.com/darkkaiser/offer-notifier/internal/pkg/errors"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// Load 지정된 경로의 설정 파일을 읽어 AppConfig 객체를 생성합니다.
//
// 우선순위는 기본값 < 설정 파일 < 환경 변수(OFFER_NOTIFIER__ 접두사) 순입니다.
// 파일이 없거나 형식이 잘못되었거나 검증에 실패하면 에러를 반환하며, 이 에러는 프로세스 시작을 중단시켜야 합니다.
func Load(filename string) (*AppConfig, error) {
	var appConfig AppConfig
	if err := load(filename, EnvPrefix, Default(), &appConfig); err != nil {
		return nil, err
	}

	// 설정 파일에 소스 목록을 빈 배열로 명시한 경우에도 기본 소스를 감시한다.
	if len(appConfig.Sources) == 0 {
		appConfig.Sources = []SourceConfig{DefaultSource()}
	}

	if err := appConfig.validate(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("설정 파일('%s')의 유효성 검증에 실패했습니다", filename))
	}

	return &appConfig, nil
}

// LoadCredentials 메일 발송 계정 정보 파일을 읽습니다.
// 파일의 각 항목은 OFFER_NOTIFIER_CREDENTIALS__ 접두사의 환경 변수로 덮어쓸 수 있습니다.
func LoadCredentials(filename string) (*Credentials, error) {
	var c Credentials
	if err := load(filename, CredentialsEnvPrefix, Credentials{}, &c); err != nil {
		return nil, err
	}

	if err := checkStruct(validate, c, "자격 증명"); err != nil {
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("자격 증명 파일('%s')의 유효성 검증에 실패했습니다", filename))
	}

	return &c, nil
}

// load 기본값, JSON 파일, 환경 변수를 차례로 병합한 뒤 out에 디코딩합니다.
// out은 제로 값이어야 한다. 슬라이스 원소가 기존 값과 섞이지 않도록 기본값은 koanf에만 적재한다.
func load(filename, envPrefix string, defaults, out any) error {
	k := koanf.New(".")

	// 1. 기본값 로드 (가장 낮은 우선순위)
	if err := k.Load(structs.Provider(defaults, "json"), nil); err != nil {
		return apperrors.Wrap(err, apperrors.System, "기본 설정 로드에 실패했습니다")
	}

	// 2. JSON 설정 파일 로드 (기본값 덮어쓰기)
	if err := k.Load(file.Provider(filename), json.Parser()); err != nil {
		if os.IsNotExist(err) {
			return apperrors.Wrap(err, apperrors.System, fmt.Sprintf("설정 파일을 찾을 수 없습니다: '%s'", filename))
		}
		return apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("설정 파일 로드 중 오류가 발생했습니다: '%s'", filename))
	}

	// 3. 환경 변수 로드 (최우선 순위)
	// 이중 언더스코어(__)는 계층 구분자(.)로 변환한다.
	// 예: OFFER_NOTIFIER__HTTP__USER_AGENT -> http.user_agent
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return normalizeEnvKey(envPrefix, s)
	}), nil); err != nil {
		return apperrors.Wrap(err, apperrors.System, "환경 변수 로드에 실패했습니다")
	}

	// 4. 구조체 언마샬링 (Strict Validation 적용)
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "json",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
			ErrorUnused:      true, // 파일에 존재하지만 구조체에 없는 필드가 있을 경우 에러를 발생시킴
			WeaklyTypedInput: true,
			Result:           out,
		},
	}
	if err := k.UnmarshalWithConf("", out, unmarshalConf); err != nil {
		return apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("설정 파일('%s')의 값을 구조체로 변환하는데 실패했습니다", filename))
	}

	return nil
}

func normalizeEnvKey(prefix, s string) string {
	s = strings.TrimPrefix(s, prefix)
	s = strings.ToLower(s)
	return strings.ReplaceAll(s, "__", ".")
}
