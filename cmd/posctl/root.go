package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"posflow/pkg/userapi"
)

type options struct {
	url   string
	token string
}

func (o *options) client() (*userapi.Client, error) {
	if o.url == "" {
		return nil, errors.New("user service url not set (use --url or USER_API_URL)")
	}
	return userapi.New(o.url, userapi.WithToken(o.token))
}

func newRootCmd() *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:           "posctl",
		Short:         "Manage PosFlow operators in the user service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&o.url, "url", os.Getenv("USER_API_URL"), "user service base URL")
	root.PersistentFlags().StringVar(&o.token, "token", os.Getenv("POSCTL_TOKEN"), "bearer token from login")

	root.AddCommand(newLoginCmd(o), newLogoutCmd(o), newUsersCmd(o))
	return root
}

func newLoginCmd(o *options) *cobra.Command {
	var creds userapi.Credentials
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and print the access token",
		Long: `Logs in to the user service and prints the access token.

Export it for later commands:
  export POSCTL_TOKEN=$(posctl login --email a@b.c --password secret)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := o.client()
			if err != nil {
				return err
			}
			res, err := c.Login(cmd.Context(), creds)
			if err != nil {
				return err
			}
			if !res.Success {
				return errors.Errorf("login refused: %s", res.Message)
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Data.AccessToken)
			return nil
		},
	}
	cmd.Flags().StringVar(&creds.Email, "email", "", "account email")
	cmd.Flags().StringVar(&creds.Password, "password", "", "account password")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session for --token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := o.client()
			if err != nil {
				return err
			}
			return c.Logout(cmd.Context())
		},
	}
}

func newUsersCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "List, register, update and delete users",
	}
	cmd.AddCommand(newUsersListCmd(o), newUsersRegisterCmd(o), newUsersUpdateCmd(o), newUsersDeleteCmd(o))
	return cmd
}

func newUsersListCmd(o *options) *cobra.Command {
	var params []string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := parsePairs(params)
			if err != nil {
				return err
			}
			c, err := o.client()
			if err != nil {
				return err
			}
			body, err := c.Users(cmd.Context(), url.Values(q))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), body)
		},
	}
	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "query parameter as key=value (repeatable)")
	return cmd
}

func newUsersRegisterCmd(o *options) *cobra.Command {
	var req userapi.RegisterRequest
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := o.client()
			if err != nil {
				return err
			}
			res, err := c.Register(cmd.Context(), req)
			if err != nil {
				return err
			}
			b, err := json.Marshal(res)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), b)
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.Email, "email", "", "email")
	f.StringVar(&req.Password, "password", "", "password")
	f.StringVar(&req.Fullname, "fullname", "", "full name")
	f.StringVar(&req.Phone, "phone", "", "phone number")
	f.StringVar(&req.Role, "role", "cashier", "role: admin or cashier")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	return cmd
}

func newUsersUpdateCmd(o *options) *cobra.Command {
	var sets []string
	cmd := &cobra.Command{
		Use:     "update <id>",
		Short:   "Patch user fields",
		Example: `  posctl users update 64f0c1 --set fullname="Ann Lee" --set role=admin`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kv, err := parsePairs(sets)
			if err != nil {
				return err
			}
			if len(kv) == 0 {
				return errors.New("nothing to update: pass at least one --set")
			}
			patch := make(map[string]string, len(kv))
			for k, v := range kv {
				patch[k] = v[len(v)-1]
			}
			c, err := o.client()
			if err != nil {
				return err
			}
			body, err := c.UpdateUser(cmd.Context(), args[0], patch)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), body)
		},
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "field as key=value (repeatable)")
	return cmd
}

func newUsersDeleteCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := o.client()
			if err != nil {
				return err
			}
			if err := c.DeleteUser(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}

func parsePairs(pairs []string) (map[string][]string, error) {
	out := make(map[string][]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, errors.Errorf("expected key=value, got %q", p)
		}
		out[k] = append(out[k], v)
	}
	return out, nil
}

func printJSON(w io.Writer, b []byte) error {
	if len(bytes.TrimSpace(b)) == 0 {
		return nil
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, b, "", "  "); err != nil {
		_, err = w.Write(b)
		return err
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(w)
	return err
}
