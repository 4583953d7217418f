package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newConvertCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "convert AMOUNT FROM TO",
		Short:   "Convert an amount between two currencies",
		Example: "  rateconv convert 100 USD INR",
		// Flag parsing is done by hand so that an amount such as "-5"
		// reaches ParseAmount instead of being read as a shorthand flag.
		DisableFlagParsing: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			positional, flags := splitConvertArgs(cmd, args)
			if err := cmd.ParseFlags(flags); err != nil {
				return err
			}
			if helpRequested(cmd) {
				return nil
			}
			if err := cobra.ExactArgs(3)(cmd, positional); err != nil {
				return err
			}
			return cmd.Root().PersistentPreRunE(cmd, positional)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if helpRequested(cmd) {
				return cmd.Help()
			}
			positional, _ := splitConvertArgs(cmd, args)
			conv, err := a.converter.Convert(cmd.Context(), positional[0], positional[1], positional[2])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), conv)
			return nil
		},
	}
}

// splitConvertArgs separates positional arguments from flags. Anything that
// starts like a negative number is positional, as is everything after "--".
func splitConvertArgs(cmd *cobra.Command, args []string) (positional, flags []string) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--":
			return append(positional, args[i+1:]...), flags
		case !strings.HasPrefix(arg, "-") || arg == "-" || looksNumeric(arg):
			positional = append(positional, arg)
		default:
			flags = append(flags, arg)
			if takesValue(cmd, arg) && i+1 < len(args) {
				i++
				flags = append(flags, args[i])
			}
		}
	}
	return positional, flags
}

func looksNumeric(arg string) bool {
	c := arg[1]
	return c == '.' || (c >= '0' && c <= '9')
}

// takesValue reports whether arg names a flag whose value is the next
// argument.
func takesValue(cmd *cobra.Command, arg string) bool {
	if strings.Contains(arg, "=") {
		return false
	}
	name := strings.TrimLeft(arg, "-")
	flag := cmd.Flags().Lookup(name)
	if !strings.HasPrefix(arg, "--") {
		if len(name) != 1 {
			return false
		}
		flag = cmd.Flags().ShorthandLookup(name)
	}
	return flag != nil && flag.NoOptDefVal == ""
}

func helpRequested(cmd *cobra.Command) bool {
	help, err := cmd.Flags().GetBool("help")
	return err == nil && help
}
