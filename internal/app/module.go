package app

import (
	"time"

	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/internal/app/api/server"
	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/internal/app/service/billing"
	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/internal/app/service/notifier"
	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/internal/app/service/reconciler"
	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/internal/app/service/settings"
	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/internal/app/service/support"
	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/internal/app/service/thread"
	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/internal/app/service/webhooklog"
	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/internal/platform/db"
	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/internal/platform/mail"
	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/internal/platform/stripe"
	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/pkg/config"
	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/pkg/logger"

	"go.uber.org/fx"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

var Module = fx.Options(
	logger.Module,
	config.Module,
	db.Module,
	server.Module,
	mail.Module,
	stripe.Module,
	webhooklog.Module,
	settings.Module,
	notifier.Module,
	support.Module,
	thread.Module,
	reconciler.Module,
	billing.Module,
)
