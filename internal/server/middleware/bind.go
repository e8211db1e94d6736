package middleware

import (
	"fmt"
	"net/http"
	"reflect"

	"github.com/cstockton/go-conv"
	"github.com/labstack/echo/v4"
)

// BindAndValidate binds the request body, path params, query, headers and
// the authenticated identity into req, then validates it. Validation
// failures are answered with 400.
func BindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return err
	}

	if err := bindHeader(c.Request().Header, req); err != nil {
		return err
	}

	if err := bindIdentity(c, req); err != nil {
		return err
	}

	if err := c.Validate(req); err != nil {
		return NewResponseError(http.StatusBadRequest, "invalid_request", err.Error())
	}

	return nil
}

// bindIdentity decodes the authenticated identity into tags `auth:"sub"`
// and `auth:"email"`. Anonymous requests leave the fields untouched.
func bindIdentity(c echo.Context, dst any) error {
	user := GetIdentity(c)
	if user == nil {
		return nil
	}

	getValueFn := func(tagValue string) (any, error) {
		switch tagValue {
		case "sub":
			return user.UserID, nil
		case "email":
			return user.Email, nil
		default:
			return nil, fmt.Errorf("binding auth field %s is not supported", tagValue)
		}
	}

	return bindStruct(dst, "auth", getValueFn)
}

// bindHeader decodes http headers into tags `header:"<header_name>"`.
func bindHeader(header http.Header, dst any) error {
	getValueFn := func(tagValue string) (any, error) {
		return header.Get(tagValue), nil
	}

	return bindStruct(dst, "header", getValueFn)
}

// bindStruct decodes into the fields of the struct dst points to that carry
// `tagName:"tagValue"`.
func bindStruct(dst any, tagName string, getValueFn func(tagValue string) (any, error)) error {
	ptr := reflect.ValueOf(dst)
	if ptr.Kind() != reflect.Ptr {
		return fmt.Errorf("non-pointer passed to Unmarshal")
	}

	indirect := reflect.Indirect(ptr)
	structType := indirect.Type()

	for i := 0; i < structType.NumField(); i++ {
		structField := structType.Field(i)
		tagValue := structField.Tag.Get(tagName)
		if tagValue == "-" || tagValue == "" {
			continue
		}

		field := indirect.Field(i)
		value, err := getValueFn(tagValue)
		if err != nil {
			return err
		}
		if err := conv.Infer(field, value); err != nil {
			return fmt.Errorf("cannot parse %s.%s as %s from: %#v / %s",
				structType.Name(), structField.Name, field.Type(), value, err)
		}
	}

	return nil
}
