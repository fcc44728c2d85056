package config

const (
	defaultProjectsRoot    = "~/projects"
	defaultDatabase        = "~/.local/share/reel/reel.db"
	defaultLogDir          = "~/.local/share/reel/logs"
	defaultRepoVariable    = "REEL_REPO"
	defaultSeparator       = "_"
	defaultRevisionPrefix  = "r"
	defaultRevisionPadding = 2
	defaultVersionPrefix   = "v"
	defaultVersionPadding  = 3
	defaultShotPrefix      = "SH"
	defaultShotPadding     = 3
	defaultTake            = "MAIN"
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
	defaultRetentionDays   = 30
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ProjectsRoot: defaultProjectsRoot,
			Database:     defaultDatabase,
			LogDir:       defaultLogDir,
			RepoVariable: defaultRepoVariable,
		},
		Naming: Naming{
			Separator:        defaultSeparator,
			SubNameField:     true,
			RevisionPrefix:   defaultRevisionPrefix,
			RevisionPadding:  defaultRevisionPadding,
			VersionPrefix:    defaultVersionPrefix,
			VersionPadding:   defaultVersionPadding,
			ShotPrefix:       defaultShotPrefix,
			ShotPadding:      defaultShotPadding,
			DefaultTake:      defaultTake,
			IgnoreExtensions: []string{".bak", ".swatches", ".autosave", ".tmp"},
			IgnorePatterns:   []string{"**/.*", "**/incrementalSave/**"},
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultRetentionDays,
		},
		Environments: defaultEnvironments(),
		VersionTypes: defaultVersionTypes(),
	}
}

func defaultEnvironments() []Environment {
	return []Environment{
		{Name: "maya", Extensions: []string{".ma", ".mb"}},
		{Name: "nuke", Extensions: []string{".nk"}},
		{Name: "houdini", Extensions: []string{".hip", ".hipnc"}},
		{Name: "blender", Extensions: []string{".blend"}},
	}
}

func defaultVersionTypes() []VersionType {
	return []VersionType{
		{
			Name:          "ANIM",
			Code:          "ANIM",
			Path:          "{{project_code}}/{{sequence_code}}/{{base_name}}/anim/{{take_name}}",
			ShotDependent: true,
			Environments:  []string{"maya", "blender"},
		},
		{
			Name:          "LIGHT",
			Code:          "LGT",
			Path:          "{{project_code}}/{{sequence_code}}/{{base_name}}/light/{{take_name}}",
			Output:        "{{project_code}}/{{sequence_code}}/{{base_name}}/renders/light/v{{version_number:3}}",
			ShotDependent: true,
			Environments:  []string{"maya", "houdini"},
		},
		{
			Name:          "COMP",
			Code:          "COMP",
			Path:          "{{project_code}}/{{sequence_code}}/{{base_name}}/comp/{{take_name}}",
			Output:        "{{project_code}}/{{sequence_code}}/{{base_name}}/renders/comp/v{{version_number:3}}",
			ShotDependent: true,
			Environments:  []string{"nuke"},
		},
		{
			Name:         "MODEL",
			Code:         "MDL",
			Path:         "Assets/Models",
			Environments: []string{"maya", "houdini", "blender"},
		},
	}
}
