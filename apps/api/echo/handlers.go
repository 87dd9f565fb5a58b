package echoapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kuponim/kuponim/core"
	"github.com/kuponim/kuponim/core/coupon"
)

// --- auth ---

type (
	LoginRequest struct {
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token      string             `json:"token"`
		AlertsSent []coupon.SentAlert `json:"alerts_sent"`
	}

	authApi struct {
		conf   *core.Config
		svc    *coupon.Service
		logger core.Logger
	}
)

func (lr *LoginRequest) Validate() error { return core.Validate.Struct(lr) }

func registerAuthAPI(g *echo.Group, conf *core.Config, svc *coupon.Service, logger core.Logger) {
	api := authApi{conf: conf, svc: svc, logger: logger}
	g.POST("/auth/login", api.login)
}

// login opens a session. The expiry alert scan runs here, synchronously,
// once per session start; a failed scan is reported to the operator but
// never blocks the login itself.
func (api *authApi) login(ctx echo.Context) error {
	data := new(LoginRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := data.Validate(); err != nil {
		return err
	}

	claims, err := authenticate(data.Password, api.conf)
	if err != nil {
		return err
	}
	token, err := GenerateToken(claims, api.conf)
	if err != nil {
		return err
	}

	sent, err := api.svc.RunAlerts(time.Now())
	if err != nil {
		api.logger.Error(fmt.Sprintf("running expiry alerts: %v", err), err)
	}
	if sent == nil {
		sent = []coupon.SentAlert{}
	}

	return ctx.JSON(http.StatusOK, LoginResponse{Token: token, AlertsSent: sent})
}

// --- coupons ---

type couponApi struct {
	service *coupon.Service
}

func registerCouponAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *coupon.Service) {
	api := couponApi{service: svc}

	cg := g.Group("/coupons", jwt)
	cg.GET("", api.couponWallet)
	cg.POST("", api.couponCreate)
	cg.PUT("/:id", api.couponUpdate)
	cg.PUT("/:id/status", api.couponSetStatus)
	cg.DELETE("/:id", api.couponDestroy)
}

func (api *couponApi) couponWallet(ctx echo.Context) error {
	filter := new(coupon.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return err
	}

	wallet, err := api.service.Wallet(*filter)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, wallet)
}

func (api *couponApi) couponCreate(ctx echo.Context) error {
	data := new(coupon.NewCoupon)
	if err := ctx.Bind(data); err != nil {
		return err
	}

	c, err := api.service.Add(*data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, c)
}

func (api *couponApi) couponUpdate(ctx echo.Context) error {
	data := new(coupon.UpdateCoupon)
	if err := ctx.Bind(data); err != nil {
		return err
	}

	c, err := api.service.Update(ctx.Param("id"), *data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *couponApi) couponSetStatus(ctx echo.Context) error {
	data := new(coupon.StatusUpdate)
	if err := ctx.Bind(data); err != nil {
		return err
	}

	c, err := api.service.SetStatus(ctx.Param("id"), data.Status)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *couponApi) couponDestroy(ctx echo.Context) error {
	if err := api.service.Delete(ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

// --- settings ---

type settingsApi struct {
	service *coupon.Service
}

func registerSettingsAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *coupon.Service) {
	api := settingsApi{service: svc}

	sg := g.Group("/settings", jwt)
	sg.GET("", api.settingsRetrieve)
	sg.PUT("", api.settingsUpdate)
	sg.POST("/test-email", api.settingsTestEmail)
}

func (api *settingsApi) settingsRetrieve(ctx echo.Context) error {
	settings, err := api.service.Settings()
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, settings)
}

func (api *settingsApi) settingsUpdate(ctx echo.Context) error {
	data := new(coupon.Settings)
	if err := ctx.Bind(data); err != nil {
		return err
	}

	settings, err := api.service.UpdateSettings(*data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, settings)
}

func (api *settingsApi) settingsTestEmail(ctx echo.Context) error {
	if err := api.service.SendTestEmail(); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"detail": "test email sent"})
}
