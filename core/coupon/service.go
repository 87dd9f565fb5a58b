package coupon

import (
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/kuponim/kuponim/core"
)

var (
	// ErrNotFound is returned when no coupon carries the requested id.
	ErrNotFound = errors.New("coupon not found")
)

type (
	// Repository is the whole-table backing store. Loads always fetch fresh;
	// saves overwrite the complete remote table.
	Repository interface {
		LoadCoupons() ([]Coupon, error)
		SaveCoupons(coupons []Coupon) error
		// LoadSettings reports ok=false when no settings row is stored yet.
		LoadSettings() (settings Settings, ok bool, err error)
		SaveSettings(settings Settings) error
	}

	Service struct {
		repo    Repository
		mailSvc core.EmailService
		conf    *core.Config
		logger  core.Logger
	}
)

func NewService(repo Repository, mailSvc core.EmailService, conf *core.Config, logger core.Logger) *Service {
	return &Service{
		repo:    repo,
		mailSvc: mailSvc,
		conf:    conf,
		logger:  logger,
	}
}

// All returns every record, fresh from the backing store.
func (svc *Service) All() ([]Coupon, error) {
	return svc.repo.LoadCoupons()
}

// Wallet builds the grouped wallet view: one status at a time, optional
// free-text search, groups by merchant (case-insensitive) sorted
// alphabetically, coupons inside a group sorted by expiry with
// non-expiring ones last.
func (svc *Service) Wallet(qf QueryFilter) (Wallet, error) {
	if err := qf.Validate(); err != nil {
		return Wallet{}, err
	}

	coupons, err := svc.repo.LoadCoupons()
	if err != nil {
		return Wallet{}, err
	}

	today := nowFunc()
	wallet := Wallet{Status: qf.Status, Groups: []WalletGroup{}}
	groups := make(map[string]*WalletGroup)

	for i := range coupons {
		c := coupons[i]
		if c.Status != qf.Status {
			continue
		}
		if !c.Matches(qf.Search) {
			continue
		}

		item := WalletItem{Coupon: c, Amount: c.Amount(), Urgency: c.UrgencyAt(today)}
		wallet.Count++
		wallet.Total += item.Amount
		if item.Urgency == UrgencyExpired {
			wallet.ExpiredCount++
		}

		key := strings.ToLower(c.Network)
		grp, ok := groups[key]
		if !ok {
			grp = &WalletGroup{Network: c.Network}
			groups[key] = grp
		}
		grp.Count++
		grp.Subtotal += item.Amount
		grp.Coupons = append(grp.Coupons, item)
	}

	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		grp := groups[key]
		sort.SliceStable(grp.Coupons, func(i, j int) bool {
			return expiryOrMax(&grp.Coupons[i].Coupon).Before(expiryOrMax(&grp.Coupons[j].Coupon))
		})
		wallet.Groups = append(wallet.Groups, *grp)
	}
	return wallet, nil
}

// Add validates and appends a new record, then rewrites the whole table.
func (svc *Service) Add(nc NewCoupon) (Coupon, error) {
	if err := nc.Validate(); err != nil {
		return Coupon{}, err
	}

	coupons, err := svc.repo.LoadCoupons()
	if err != nil {
		return Coupon{}, err
	}

	c := Coupon{
		ID:         uuid.New().String(),
		Network:    nc.Network,
		Value:      nc.Value,
		Kind:       nc.Kind,
		CodeOrLink: nc.CodeOrLink,
		Expiry:     nc.Expiry,
		CVV:        nc.CVV,
		Note:       nc.Note,
		Status:     StatusActive,
	}
	coupons = append(coupons, c)

	if err = svc.repo.SaveCoupons(coupons); err != nil {
		return Coupon{}, err
	}
	return c, nil
}

// Update edits the record addressed by id; empty fields keep their value.
func (svc *Service) Update(id string, uc UpdateCoupon) (Coupon, error) {
	coupons, err := svc.repo.LoadCoupons()
	if err != nil {
		return Coupon{}, err
	}

	i, err := indexOf(coupons, id)
	if err != nil {
		return Coupon{}, err
	}
	if err = uc.Validate(coupons[i]); err != nil {
		return Coupon{}, err
	}

	c := &coupons[i]
	c.Network = uc.Network
	c.Value = uc.Value
	c.Kind = uc.Kind
	c.CodeOrLink = uc.CodeOrLink
	c.Expiry = uc.Expiry
	c.CVV = uc.CVV
	c.Note = uc.Note

	if err = svc.repo.SaveCoupons(coupons); err != nil {
		return Coupon{}, err
	}
	return *c, nil
}

// SetStatus moves the record between the active wallet and the archive.
func (svc *Service) SetStatus(id, status string) (Coupon, error) {
	su := StatusUpdate{Status: status}
	if err := su.Validate(); err != nil {
		return Coupon{}, err
	}

	coupons, err := svc.repo.LoadCoupons()
	if err != nil {
		return Coupon{}, err
	}

	i, err := indexOf(coupons, id)
	if err != nil {
		return Coupon{}, err
	}
	coupons[i].Status = su.Status

	if err = svc.repo.SaveCoupons(coupons); err != nil {
		return Coupon{}, err
	}
	return coupons[i], nil
}

// Delete removes the record addressed by id and rewrites the table.
func (svc *Service) Delete(id string) error {
	coupons, err := svc.repo.LoadCoupons()
	if err != nil {
		return err
	}

	i, err := indexOf(coupons, id)
	if err != nil {
		return err
	}
	coupons = append(coupons[:i], coupons[i+1:]...)

	return svc.repo.SaveCoupons(coupons)
}

// Settings returns the stored alert settings, falling back to config defaults
// when nothing has been saved yet.
func (svc *Service) Settings() (Settings, error) {
	settings, ok, err := svc.repo.LoadSettings()
	if err != nil {
		return Settings{}, err
	}
	if !ok {
		settings = Settings{
			Recipient:     svc.conf.Alerts.Recipient,
			ThresholdDays: svc.conf.Alerts.ThresholdDays,
			Enabled:       svc.conf.Alerts.Enabled,
		}
	}
	if len(settings.ThresholdDays) == 0 {
		settings.ThresholdDays = svc.conf.Alerts.ThresholdDays
	}
	return settings, nil
}

// UpdateSettings validates and persists the alert settings.
func (svc *Service) UpdateSettings(s Settings) (Settings, error) {
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	if len(s.ThresholdDays) == 0 {
		s.ThresholdDays = svc.conf.Alerts.ThresholdDays
	}
	if err := svc.repo.SaveSettings(s); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func indexOf(coupons []Coupon, id string) (int, error) {
	for i := range coupons {
		if coupons[i].ID == id {
			return i, nil
		}
	}
	return 0, ErrNotFound
}
