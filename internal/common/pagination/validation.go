package pagination

// WithDefaults applies default values from config to Params.
//
// Rules:
//   - If page <= 0, set to config.DefaultPage
//   - If pageSize <= 0, set to config.DefaultPageSize
//   - If pageSize > config.MaxPageSize, cap to config.MaxPageSize
func (p Params) WithDefaults(config Config) Params {
	if p.Page <= 0 {
		p.Page = config.DefaultPage
	}
	if p.PageSize <= 0 {
		p.PageSize = config.DefaultPageSize
	}
	if config.MaxPageSize > 0 && p.PageSize > config.MaxPageSize {
		p.PageSize = config.MaxPageSize
	}
	return p
}
