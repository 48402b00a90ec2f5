package cli

import (
	"fmt"
)

// CompletionsCmd generates shell completions
type CompletionsCmd struct {
	Shell string `arg:"" enum:"bash,zsh,fish" help:"Shell type (bash, zsh, fish)"`
}

// Run executes the completions command
func (c *CompletionsCmd) Run(globals *Globals) error {
	var script string
	switch c.Shell {
	case "bash":
		script = bashCompletion
	case "zsh":
		script = zshCompletion
	case "fish":
		script = fishCompletion
	default:
		return fmt.Errorf("unsupported shell: %s", c.Shell)
	}
	_, err := fmt.Fprint(globals.Stdout, script)
	return err
}

const bashCompletion = `# rogcat bash completion script
# Add to ~/.bashrc or ~/.bash_profile:
#   eval "$(rogcat completions bash)"

_rogcat_completions() {
    local cur prev words cword
    _init_completion || return

    local commands="capture devices clear log bugreport completions config doctor version"
    local global_flags="--format -s --serial --adb -q --quiet -v --verbose"
    local levels="trace debug info warn error fatal assert"

    case "${prev}" in
        rogcat)
            COMPREPLY=($(compgen -W "${commands} ${global_flags}" -- "${cur}"))
            return
            ;;
        --format)
            COMPREPLY=($(compgen -W "csv html human json raw" -- "${cur}"))
            return
            ;;
        -l|--level)
            COMPREPLY=($(compgen -W "${levels}" -- "${cur}"))
            return
            ;;
        -b|--buffer)
            COMPREPLY=($(compgen -W "main system radio events crash kernel all" -- "${cur}"))
            return
            ;;
        -a|--filename-format)
            COMPREPLY=($(compgen -W "single enumerate date" -- "${cur}"))
            return
            ;;
        -s|--serial)
            local serials=$(adb devices 2>/dev/null | awk 'NR>1 && $2=="device" {print $1}')
            COMPREPLY=($(compgen -W "${serials}" -- "${cur}"))
            return
            ;;
        -i|--input|-o|--output|-P|--profiles-path|--metrics-file)
            _filedir
            return
            ;;
        completions)
            COMPREPLY=($(compgen -W "bash zsh fish" -- "${cur}"))
            return
            ;;
    esac

    case "${words[1]}" in
        devices)
            COMPREPLY=($(compgen -W "--online-only ${global_flags}" -- "${cur}"))
            ;;
        clear)
            COMPREPLY=($(compgen -W "-b --buffer ${global_flags}" -- "${cur}"))
            ;;
        log)
            COMPREPLY=($(compgen -W "-t --tag -l --level ${global_flags}" -- "${cur}"))
            ;;
        bugreport)
            COMPREPLY=($(compgen -W "-z --zip --overwrite ${global_flags}" -- "${cur}"))
            ;;
        config)
            COMPREPLY=($(compgen -W "show path generate" -- "${cur}"))
            ;;
        *)
            COMPREPLY=($(compgen -W "${commands} --restart -b --buffer -L --last -d --dump --tail -i --input -l --level --package -p --profile -P --profiles-path -H --head -o --output --overwrite -n --records-per-file -a --filename-format --hide-timestamp --show-date --message-only --metrics-file ${global_flags}" -- "${cur}"))
            ;;
    esac
}

complete -F _rogcat_completions rogcat
`

const zshCompletion = `#compdef rogcat
# rogcat zsh completion script
# Add to ~/.zshrc:
#   eval "$(rogcat completions zsh)"

_rogcat() {
    local -a commands
    commands=(
        'capture:Capture, filter and write logs'
        'devices:List attached devices'
        'clear:Clear logd buffers'
        'log:Add a message to the device log'
        'bugreport:Capture a bugreport into a file'
        'completions:Generate shell completions'
        'config:Show or manage configuration'
        'doctor:Check adb, devices and configuration'
        'version:Show version information'
    )

    local -a global_opts
    global_opts=(
        '--format[Output format]:format:(csv html human json raw)'
        '-s[Device serial]:serial:->serials'
        '--serial[Device serial]:serial:->serials'
        '--adb[Path to adb]:adb:_files'
        '-q[Suppress diagnostics]'
        '--quiet[Suppress diagnostics]'
        '-v[Show debug output]'
        '--verbose[Show debug output]'
    )

    local -a capture_opts
    capture_opts=(
        '--restart[Restart the source when it exits]'
        '*-b[Logcat buffer]:buffer:(main system radio events crash kernel all)'
        '*--buffer[Logcat buffer]:buffer:(main system radio events crash kernel all)'
        '-L[Dump logs prior to the last reboot]'
        '--last[Dump logs prior to the last reboot]'
        '-d[Dump the log and exit]'
        '--dump[Dump the log and exit]'
        '--tail[Dump the most recent N records]:count:'
        '*-i[Input file]:file:_files'
        '*--input[Input file]:file:_files'
        '-l[Minimum level]:level:(trace debug info warn error fatal assert)'
        '--level[Minimum level]:level:(trace debug info warn error fatal assert)'
        '*--package[Only keep records of this package]:package:'
        '-p[Profile]:profile:'
        '--profile[Profile]:profile:'
        '-P[Profiles file]:file:_files'
        '--profiles-path[Profiles file]:file:_files'
        '-H[Stop after N records]:count:'
        '--head[Stop after N records]:count:'
        '-o[Output file]:file:_files'
        '--output[Output file]:file:_files'
        '--overwrite[Overwrite output files]'
        '-n[Records per file]:count:'
        '--records-per-file[Records per file]:count:'
        '-a[Filename format]:format:(single enumerate date)'
        '--filename-format[Filename format]:format:(single enumerate date)'
        '--hide-timestamp[Hide timestamp]'
        '--show-date[Show month and day]'
        '--message-only[Only print the message]'
        '--metrics-file[Write counters to file]:file:_files'
    )

    _arguments -C \
        $global_opts \
        '1: :->command' \
        '*:: :->args'

    case $state in
        command)
            _describe 'command' commands
            _arguments $capture_opts
            ;;
        args)
            case $words[1] in
                capture)
                    _arguments $capture_opts $global_opts
                    ;;
                clear)
                    _arguments '*-b[Buffer to clear]:buffer:(main system radio events crash kernel all)' $global_opts
                    ;;
                log)
                    _arguments \
                        '-t[Log tag]:tag:' \
                        '--tag[Log tag]:tag:' \
                        '-l[Log level]:level:(trace debug info warn error fatal assert)' \
                        '--level[Log level]:level:(trace debug info warn error fatal assert)' \
                        $global_opts
                    ;;
                bugreport)
                    _arguments '-z[Write a zip archive]' '--zip[Write a zip archive]' '--overwrite[Overwrite the report]' '1:file:_files' $global_opts
                    ;;
                config)
                    _arguments '1:action:(show path generate)'
                    ;;
                completions)
                    _arguments '1:shell:(bash zsh fish)'
                    ;;
            esac
            ;;
    esac

    case $state in
        serials)
            local -a serials
            serials=(${(f)"$(adb devices 2>/dev/null | awk 'NR>1 && $2=="device" {print $1}')"})
            _describe 'serial' serials
            ;;
    esac
}

compdef _rogcat rogcat
`

const fishCompletion = `# rogcat fish completion script
# Add to ~/.config/fish/completions/rogcat.fish

# Disable file completion by default
complete -c rogcat -f

# Commands
complete -c rogcat -n "__fish_use_subcommand" -a "capture" -d "Capture, filter and write logs"
complete -c rogcat -n "__fish_use_subcommand" -a "devices" -d "List attached devices"
complete -c rogcat -n "__fish_use_subcommand" -a "clear" -d "Clear logd buffers"
complete -c rogcat -n "__fish_use_subcommand" -a "log" -d "Add a message to the device log"
complete -c rogcat -n "__fish_use_subcommand" -a "bugreport" -d "Capture a bugreport into a file"
complete -c rogcat -n "__fish_use_subcommand" -a "completions" -d "Generate shell completions"
complete -c rogcat -n "__fish_use_subcommand" -a "config" -d "Show or manage configuration"
complete -c rogcat -n "__fish_use_subcommand" -a "doctor" -d "Check adb, devices and configuration"
complete -c rogcat -n "__fish_use_subcommand" -a "version" -d "Show version information"

# Global flags
complete -c rogcat -l format -d "Output format" -xa "csv html human json raw"
complete -c rogcat -s s -l serial -d "Device serial" -xa "(adb devices 2>/dev/null | awk 'NR>1 && \$2==\"device\" {print \$1}')"
complete -c rogcat -l adb -d "Path to adb" -r
complete -c rogcat -s q -l quiet -d "Suppress diagnostics"
complete -c rogcat -s v -l verbose -d "Show debug output"

# Capture (also the default command)
complete -c rogcat -n "not __fish_seen_subcommand_from devices clear log bugreport completions config doctor version" -l restart -d "Restart the source when it exits"
complete -c rogcat -n "not __fish_seen_subcommand_from devices clear log bugreport completions config doctor version" -s b -l buffer -d "Logcat buffer" -xa "main system radio events crash kernel all"
complete -c rogcat -n "not __fish_seen_subcommand_from devices clear log bugreport completions config doctor version" -s L -l last -d "Dump logs prior to the last reboot"
complete -c rogcat -n "not __fish_seen_subcommand_from devices clear log bugreport completions config doctor version" -s d -l dump -d "Dump the log and exit"
complete -c rogcat -n "not __fish_seen_subcommand_from devices clear log bugreport completions config doctor version" -l tail -d "Dump the most recent N records" -x
complete -c rogcat -n "not __fish_seen_subcommand_from devices clear log bugreport completions config doctor version" -s i -l input -d "Input file" -r -F
complete -c rogcat -n "not __fish_seen_subcommand_from devices clear log bugreport completions config doctor version" -s l -l level -d "Minimum level" -xa "trace debug info warn error fatal assert"
complete -c rogcat -n "not __fish_seen_subcommand_from devices clear log bugreport completions config doctor version" -l package -d "Only keep records of this package" -x
complete -c rogcat -n "not __fish_seen_subcommand_from devices clear log bugreport completions config doctor version" -s p -l profile -d "Profile" -x
complete -c rogcat -n "not __fish_seen_subcommand_from devices clear log bugreport completions config doctor version" -s P -l profiles-path -d "Profiles file" -r -F
complete -c rogcat -n "not __fish_seen_subcommand_from devices clear log bugreport completions config doctor version" -s H -l head -d "Stop after N records" -x
complete -c rogcat -n "not __fish_seen_subcommand_from devices clear log bugreport completions config doctor version" -s o -l output -d "Output file" -r -F
complete -c rogcat -n "not __fish_seen_subcommand_from devices clear log bugreport completions config doctor version" -l overwrite -d "Overwrite output files"
complete -c rogcat -n "not __fish_seen_subcommand_from devices clear log bugreport completions config doctor version" -s n -l records-per-file -d "Records per file" -x
complete -c rogcat -n "not __fish_seen_subcommand_from devices clear log bugreport completions config doctor version" -s a -l filename-format -d "Filename format" -xa "single enumerate date"
complete -c rogcat -n "not __fish_seen_subcommand_from devices clear log bugreport completions config doctor version" -l hide-timestamp -d "Hide timestamp"
complete -c rogcat -n "not __fish_seen_subcommand_from devices clear log bugreport completions config doctor version" -l show-date -d "Show month and day"
complete -c rogcat -n "not __fish_seen_subcommand_from devices clear log bugreport completions config doctor version" -l message-only -d "Only print the message"
complete -c rogcat -n "not __fish_seen_subcommand_from devices clear log bugreport completions config doctor version" -l metrics-file -d "Write counters to file" -r -F

# Devices command
complete -c rogcat -n "__fish_seen_subcommand_from devices" -l online-only -d "Only online devices"

# Clear command
complete -c rogcat -n "__fish_seen_subcommand_from clear" -s b -l buffer -d "Buffer to clear" -xa "main system radio events crash kernel all"

# Log command
complete -c rogcat -n "__fish_seen_subcommand_from log" -s t -l tag -d "Log tag" -x
complete -c rogcat -n "__fish_seen_subcommand_from log" -s l -l level -d "Log level" -xa "trace debug info warn error fatal assert"

# Bugreport command
complete -c rogcat -n "__fish_seen_subcommand_from bugreport" -s z -l zip -d "Write a zip archive"
complete -c rogcat -n "__fish_seen_subcommand_from bugreport" -l overwrite -d "Overwrite the report"
complete -c rogcat -n "__fish_seen_subcommand_from bugreport" -F

# Config command
complete -c rogcat -n "__fish_seen_subcommand_from config" -a "show path generate"

# Completions command
complete -c rogcat -n "__fish_seen_subcommand_from completions" -a "bash zsh fish"
`
