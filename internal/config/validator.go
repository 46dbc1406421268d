package config

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	apperrors "github.com/darkkaiser/offer-notifier/internal/pkg/errors"
	"github.com/darkkaiser/offer-notifier/internal/service/watch/extractor"
	"github.com/darkkaiser/offer-notifier/pkg/cronx"
	"github.com/go-playground/validator/v10"
)

var (
	// 텔레그램 봇 토큰 검증을 위한 정규식 (예: 123456:ABC-DEF1234ghIkl-zyx57W2v1u123ew11)
	telegramBotTokenRegex = regexp.MustCompile(`^\d{3,20}:[a-zA-Z0-9_-]{30,50}$`)

	validate = newValidator()
)

// newValidator 새로운 Validator 인스턴스를 생성하고 커스텀 유효성 검사 함수를 등록합니다.
func newValidator() *validator.Validate {
	v := validator.New()

	// 검증 에러가 났을 때, 에러 메시지에 Go 구조체 필드명(예: StorageKey) 대신 JSON 이름(예: storage_key)을 보여주도록 설정합니다.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// 커스텀 유효성 검사 함수 등록
	for tag, fn := range map[string]validator.Func{
		"telegram_bot_token": validateTelegramBotToken,
		"cron":               validateCron,
		"weekday":            validateWeekday,
	} {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("초기화 치명적 오류: '%s' 커스텀 유효성 검사 함수 등록에 실패했습니다: %v", tag, err))
		}
	}

	return v
}

// validateTelegramBotToken 입력된 문자열이 유효한 텔레그램 봇 토큰 형식인지 검증합니다.
//
// 텔레그램 봇 토큰은 식별자(숫자)와 비밀키(문자열)가 콜론(:)으로 구분된 형태여야 합니다.
// 예: "123456789:ABC-DEF1234ghIkl-zyx57W2v1u123ew11"
func validateTelegramBotToken(fl validator.FieldLevel) bool {
	return telegramBotTokenRegex.MatchString(fl.Field().String())
}

// validateCron 스케줄러가 사용하는 파서(cronx.StandardParser)로 해석 가능한 표현식인지 검증합니다.
func validateCron(fl validator.FieldLevel) bool {
	return cronx.Validate(fl.Field().String()) == nil
}

func validateWeekday(fl validator.FieldLevel) bool {
	_, err := extractor.ParseWeekday(fl.Field().String())
	return err == nil
}

// validate 설정 파일 로드 직후, 각 설정 항목의 정합성과 필수 값의 유효성을 검증합니다.
func (c *AppConfig) validate() error {
	if err := checkStruct(validate, c, "애플리케이션 설정"); err != nil {
		return err
	}

	for _, s := range c.Sources {
		if err := s.Selectors.Validate(); err != nil {
			return apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("Source['%s']의 선택자(selectors) 설정이 올바르지 않습니다", s.ID))
		}
	}

	if err := checkUniqueStorageKeys(c.Sources); err != nil {
		return err
	}

	return nil
}

// checkUniqueStorageKeys 서로 다른 소스가 같은 스냅샷을 덮어쓰지 않도록 저장 키의 유일성을 검사합니다.
func checkUniqueStorageKeys(sources []SourceConfig) error {
	seen := make(map[string]string, len(sources))
	for _, s := range sources {
		key := s.Key()
		if owner, ok := seen[key]; ok {
			return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("Source['%s']와 Source['%s']가 같은 저장 키('%s')를 사용합니다", owner, s.ID, key))
		}
		seen[key] = s.ID
	}
	return nil
}

// checkStruct 구조체 인스턴스의 유효성을 태그 규칙에 따라 검증하고, 발생한 오류를 사용자 친화적인 도메인 에러로 변환합니다.
func checkStruct(v *validator.Validate, s interface{}, contextName string) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("%s 유효성 검증에 실패했습니다", contextName))
	}

	// 첫 번째 에러만 상세히 보고
	firstErr := validationErrors[0]

	// 태그별(Tag) 커스텀 에러 처리
	switch firstErr.Tag() {
	case "unique":
		// unique 태그 에러는 전체 슬라이스를 덤프하지 않는다.
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("%s 내에 중복된 소스(Source) ID가 존재합니다 (설정 값을 확인해주세요)", contextName))

	case "telegram_bot_token":
		return apperrors.New(apperrors.InvalidInput, "텔레그램 BotToken 형식이 올바르지 않습니다 (올바른 형식: 123456:ABC-DEF...)")

	case "cron":
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("스케줄러 실행 주기(spec)를 해석할 수 없습니다: '%v' (예: 0 0 * * * *)", firstErr.Value()))

	case "weekday":
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("알 수 없는 요일입니다: '%v' (예: mon, tuesday)", firstErr.Value()))

	case "timezone":
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("알 수 없는 시간대입니다: '%v' (예: Europe/Warsaw)", firstErr.Value()))

	case "file":
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("지정된 파일(%s)을 찾을 수 없습니다: '%v'", firstErr.Field(), firstErr.Value()))

	case "email":
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("%s의 메일 주소(%s) 형식이 올바르지 않습니다", contextName, firstErr.Field()))
	}

	// 필드별(Field) 커스텀 에러 처리
	switch firstErr.StructField() {
	case "Port":
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("SMTP 포트(port)는 1에서 65535 사이의 값이어야 합니다: '%v'", firstErr.Value()))
	case "Password":
		// 비밀번호 값은 메시지에 포함하지 않는다.
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("%s의 비밀번호(password)가 설정되지 않았습니다", contextName))
	}

	return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("%s의 설정이 올바르지 않습니다: %s (조건: %s)", contextName, firstErr.Namespace(), firstErr.Tag()))
}
