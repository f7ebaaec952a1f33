package dropshipserver

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	authdomain "github.com/Apurer/dropship-order-service/internal/domains/auth/domain"
	orderapp "github.com/Apurer/dropship-order-service/internal/domains/orders/application"
	orderports "github.com/Apurer/dropship-order-service/internal/domains/orders/ports"
	walletapp "github.com/Apurer/dropship-order-service/internal/domains/wallet/application"
	walletdomain "github.com/Apurer/dropship-order-service/internal/domains/wallet/domain"
	apierrors "github.com/Apurer/dropship-order-service/internal/shared/errors"
)

var orderResponder = apierrors.NewChainedResponder("",
	apierrors.MapSentinel(authdomain.ErrUnauthenticated, apierrors.ErrUnauthorized),
	apierrors.MapSentinel(orderapp.ErrInvalidInput, apierrors.ErrBadRequest),
	apierrors.MapSentinel(orderports.ErrNotFound, apierrors.ErrNotFound),
)

var walletResponder = apierrors.NewChainedResponder("",
	apierrors.MapSentinel(authdomain.ErrUnauthenticated, apierrors.ErrUnauthorized),
	apierrors.MapSentinel(walletdomain.ErrInsufficientBalance, apierrors.ErrInsufficientBalance),
	apierrors.MapSentinel(walletdomain.ErrInvalidTransactionType, apierrors.ErrBadRequest),
	apierrors.MapSentinel(walletapp.ErrInvalidInput, apierrors.ErrBadRequest),
)

// respondBindError turns validator failures into a field map and anything
// else (malformed JSON, wrong types) into a plain 400.
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fieldMessage(fe)
		}
		apierrors.DefaultResponder.ValidationFailed(c, fields)
		return
	}
	apierrors.DefaultResponder.BadRequest(c, "request body is not valid JSON for this endpoint")
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return "must be greater than " + fe.Param()
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "failed " + fe.Tag() + " validation"
	}
}

var tagNamesOnce sync.Once

// registerValidatorTagNames makes field errors report JSON names.
func registerValidatorTagNames() {
	tagNamesOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
	})
}
